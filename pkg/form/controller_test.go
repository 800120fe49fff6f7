package form

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/schema"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New([]schema.Field{
		{
			Name: "email",
			Type: schema.FieldTypeString,
			Rules: []schema.Rule{
				{Kind: schema.RuleRequired, Message: "email required"},
				{Kind: schema.RuleEmail, Message: "email invalid"},
			},
		},
		{
			Name: "password",
			Type: schema.FieldTypeString,
			Rules: []schema.Rule{
				{Kind: schema.RuleRequired, Message: "password required"},
				{Kind: schema.RuleMinLength, Params: map[string]string{"value": "6"}, Message: "password too short"},
			},
		},
		{
			Name: "profile",
			Type: schema.FieldTypeObject,
			Fields: []schema.Field{
				{Name: "firstName", Type: schema.FieldTypeString, Rules: []schema.Rule{{Kind: schema.RuleRequired, Message: "first name required"}}},
				{Name: "lastName", Type: schema.FieldTypeString, Rules: []schema.Rule{{Kind: schema.RuleRequired, Message: "last name required"}}},
				{Name: "newsletter", Type: schema.FieldTypeBoolean},
			},
		},
	}, schema.WithRefinement(schema.Refinement{
		Name:    "distinctNames",
		Targets: []string{"profile.lastName"},
		Check: func(v schema.Values) []schema.Issue {
			if v.String("profile.firstName") == v.String("profile.lastName") {
				return []schema.Issue{{Path: "profile.lastName", Message: "names must differ"}}
			}
			return nil
		},
	}))
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	return s
}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	c, err := New(testSchema(t), opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func fill(t *testing.T, c *Controller, values map[string]any) {
	t.Helper()
	for path, value := range values {
		if err := c.SetValue(path, value); err != nil {
			t.Fatalf("set %s: %v", path, err)
		}
	}
}

func validInput() map[string]any {
	return map[string]any{
		"email":             "sam@example.com",
		"password":          "secret99",
		"profile.firstName": "Sam",
		"profile.lastName":  "Lee",
	}
}

func TestNew_SeedsDefaults(t *testing.T) {
	c := newController(t)

	if got := c.GetValue("email"); got != "" {
		t.Fatalf("expected empty default, got %#v", got)
	}
	if got := c.GetValue("profile.newsletter"); got != false {
		t.Fatalf("expected false default, got %#v", got)
	}
	if c.GetValue("email") != c.GetValue("email") {
		t.Fatalf("GetValue must be stable without intervening SetValue")
	}
}

func TestNew_RejectsNilSchemaAndOrphanPrefill(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilSchema) {
		t.Fatalf("expected ErrNilSchema, got %v", err)
	}
	_, err := New(testSchema(t), WithValues(map[string]any{"profile": map[string]any{"middleName": "x"}}))
	if !errors.Is(err, schema.ErrUnknownPath) {
		t.Fatalf("expected ErrUnknownPath, got %v", err)
	}
}

func TestNew_AppliesPrefill(t *testing.T) {
	c := newController(t, WithValues(map[string]any{
		"profile": map[string]any{"firstName": "Ana"},
	}))
	if got := c.GetValue("profile.firstName"); got != "Ana" {
		t.Fatalf("expected prefilled value, got %#v", got)
	}
}

func TestSetValue_UnknownPathSuggests(t *testing.T) {
	c := newController(t)
	err := c.SetValue("profile.firstname", "x")
	if !errors.Is(err, schema.ErrUnknownPath) {
		t.Fatalf("expected ErrUnknownPath, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "profile.firstName"`) {
		t.Fatalf("expected suggestion in %q", err.Error())
	}
}

func TestValidateAndSubmit_ValidInvokesCallbackOnce(t *testing.T) {
	c := newController(t)
	fill(t, c, validInput())

	calls := 0
	var got schema.Values
	ok := c.ValidateAndSubmit(func(v schema.Values) {
		calls++
		got = v
	})
	if !ok || calls != 1 {
		t.Fatalf("expected a single successful callback, ok=%v calls=%d", ok, calls)
	}
	if diff := cmp.Diff(c.Values(), got); diff != "" {
		t.Fatalf("parsed object differs from state (-state +parsed):\n%s", diff)
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("expected no errors, got %#v", c.Errors())
	}
}

func TestValidateAndSubmit_SingleViolation(t *testing.T) {
	c := newController(t)
	fill(t, c, validInput())
	fill(t, c, map[string]any{"password": "abc"})

	called := false
	if c.ValidateAndSubmit(func(schema.Values) { called = true }) {
		t.Fatalf("expected submit to fail")
	}
	if called {
		t.Fatalf("callback must not run on failure")
	}
	want := map[string]FieldError{"password": {Message: "password too short", Rule: schema.RuleMinLength}}
	if diff := cmp.Diff(want, c.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAndSubmit_CrossFieldTargetsLastName(t *testing.T) {
	c := newController(t)
	fill(t, c, validInput())
	fill(t, c, map[string]any{"profile.lastName": "Sam"})

	if c.ValidateAndSubmit(nil) {
		t.Fatalf("expected submit to fail")
	}
	errs := c.Errors()
	if len(errs) != 1 || errs["profile.lastName"].Message != "names must differ" {
		t.Fatalf("unexpected errors %#v", errs)
	}
}

func TestValidateAndSubmit_ReplacesErrorsAtomically(t *testing.T) {
	c := newController(t)
	if c.ValidateAndSubmit(nil) {
		t.Fatalf("expected empty form to fail")
	}
	if len(c.Errors()) != 4 {
		t.Fatalf("expected four required errors, got %#v", c.Errors())
	}

	fill(t, c, validInput())
	if !c.ValidateAndSubmit(nil) {
		t.Fatalf("expected resubmit to succeed, errors %#v", c.Errors())
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("successful submit must clear errors, got %#v", c.Errors())
	}
	if c.SubmitCount() != 2 {
		t.Fatalf("expected two attempts, got %d", c.SubmitCount())
	}
}

func TestSetValue_DoesNotValidate(t *testing.T) {
	c := newController(t)
	fill(t, c, map[string]any{"email": "not-an-email"})
	if len(c.Errors()) != 0 {
		t.Fatalf("SetValue must not validate, got %#v", c.Errors())
	}
}

func TestClearError_RemovesOnlyThatField(t *testing.T) {
	c := newController(t)
	c.ValidateAndSubmit(nil)

	c.ClearError("email")
	if c.Error("email") != nil {
		t.Fatalf("expected email error cleared")
	}
	if c.Error("password") == nil {
		t.Fatalf("expected password error to remain")
	}
}

func TestSubscribe_NotifiesOnlyObservedPath(t *testing.T) {
	c := newController(t)

	var emailSnaps, passwordSnaps []FieldSnapshot
	unsubEmail, err := c.Subscribe("email", func(s FieldSnapshot) { emailSnaps = append(emailSnaps, s) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := c.Subscribe("password", func(s FieldSnapshot) { passwordSnaps = append(passwordSnaps, s) }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	fill(t, c, map[string]any{"email": "a@b.com"})
	fill(t, c, map[string]any{"email": "a@b.com"})

	if len(emailSnaps) != 1 || emailSnaps[0].Value != "a@b.com" {
		t.Fatalf("expected one email snapshot, got %#v", emailSnaps)
	}
	if len(passwordSnaps) != 0 {
		t.Fatalf("password observer must not fire, got %#v", passwordSnaps)
	}

	c.ValidateAndSubmit(nil)
	if len(passwordSnaps) != 1 || passwordSnaps[0].Error == nil {
		t.Fatalf("expected password error snapshot, got %#v", passwordSnaps)
	}
	if len(emailSnaps) != 1 {
		t.Fatalf("valid email must not be re-notified, got %#v", emailSnaps)
	}

	unsubEmail()
	fill(t, c, map[string]any{"email": "b@c.com"})
	if len(emailSnaps) != 1 {
		t.Fatalf("unsubscribed observer fired")
	}
}

func TestSubscribe_UnknownPath(t *testing.T) {
	c := newController(t)
	if _, err := c.Subscribe("profile", func(FieldSnapshot) {}); !errors.Is(err, schema.ErrUnknownPath) {
		t.Fatalf("expected ErrUnknownPath, got %v", err)
	}
}

func TestTrigger_UpdatesSingleField(t *testing.T) {
	c := newController(t)
	c.ValidateAndSubmit(nil)

	fill(t, c, map[string]any{"email": "sam@example.com"})
	ok, err := c.Trigger("email")
	if err != nil || !ok {
		t.Fatalf("expected email to be valid, ok=%v err=%v", ok, err)
	}
	if c.Error("email") != nil {
		t.Fatalf("expected email error cleared by trigger")
	}
	if c.Error("password") == nil {
		t.Fatalf("trigger must not touch other fields")
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	c := newController(t)
	fill(t, c, validInput())
	c.ValidateAndSubmit(nil)

	var snaps []FieldSnapshot
	c.Subscribe("email", func(s FieldSnapshot) { snaps = append(snaps, s) })
	c.Reset()

	if diff := cmp.Diff(c.Schema().Defaults(), c.Values()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
	if c.Submitted() {
		t.Fatalf("reset must clear the submitted flag")
	}
	if len(snaps) != 1 || snaps[0].Value != "" {
		t.Fatalf("expected reset notification, got %#v", snaps)
	}
}

func TestLocale_FeedsMessages(t *testing.T) {
	locale := "en"
	c := newController(t, WithLocale(func() string { return locale }))
	if c.Locale() != "en" {
		t.Fatalf("expected en")
	}
	locale = "th"
	if c.Locale() != "th" {
		t.Fatalf("expected locale function to be consulted on each call")
	}
}

func TestTouch_MarksOnceAndResets(t *testing.T) {
	c := newController(t)

	var snaps []FieldSnapshot
	c.Subscribe("email", func(s FieldSnapshot) { snaps = append(snaps, s) })

	if err := c.Touch("email"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if err := c.Touch("email"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if !c.Touched("email") || c.Touched("password") {
		t.Fatalf("unexpected touched state")
	}
	if len(snaps) != 1 || !snaps[0].Touched {
		t.Fatalf("expected a single touched notification, got %#v", snaps)
	}

	c.Reset()
	if c.Touched("email") {
		t.Fatalf("reset must clear touched flags")
	}
	if err := c.Touch("nickname"); !errors.Is(err, schema.ErrUnknownPath) {
		t.Fatalf("expected unknown path, got %v", err)
	}
}

func TestValidateAndSubmit_UndeclaredIssueIsFormLevel(t *testing.T) {
	s, err := schema.New([]schema.Field{
		{Name: "email", Type: schema.FieldTypeString},
	}, schema.WithRefinement(schema.Refinement{
		Name: "closed",
		Check: func(schema.Values) []schema.Issue {
			return []schema.Issue{
				{Message: "registrations are closed"},
				{Message: "registrations are closed"},
			}
		},
	}))
	if err != nil {
		t.Fatalf("new schema: %v", err)
	}
	c, err := New(s)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}

	if c.ValidateAndSubmit(func(schema.Values) { t.Fatalf("onValid must not run") }) {
		t.Fatalf("expected submission to fail")
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("expected no field errors, got %v", c.Errors())
	}
	if diff := cmp.Diff([]string{"registrations are closed"}, c.FormErrors()); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
