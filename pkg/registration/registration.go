// Package registration declares the registration screen: its schema, the
// cross-field rules, typed field paths and the decoded payload.
package registration

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/goliatone/go-regform/pkg/form"
	"github.com/goliatone/go-regform/pkg/i18n"
	"github.com/goliatone/go-regform/pkg/schema"
)

//go:embed schema.yaml
var declaration []byte

// Typed paths for every leaf of the registration schema.
var (
	Email              = form.StringPath("email")
	Password           = form.StringPath("password")
	FirstName          = form.StringPath("personalInfo.firstName")
	LastName           = form.StringPath("personalInfo.lastName")
	Phone              = form.StringPath("personalInfo.phone")
	ReceiveNewsletters = form.BoolPath("preferences.receiveNewsletters")
	Theme              = form.StringPath("preferences.theme")
)

// Theme values accepted by the preferences.theme enum.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Refinement names, reported as the Rule of the issues they produce.
const (
	RuleEmailContainsPassword = "emailContainsPassword"
	RuleDistinctNames         = "distinctNames"
)

// NewSchema compiles the embedded declaration together with the cross-field
// refinements.
func NewSchema(opts ...schema.Option) (*schema.Schema, error) {
	opts = append(opts, schema.WithRefinement(Refinements()...))
	s, err := schema.LoadYAML(bytes.NewReader(declaration), opts...)
	if err != nil {
		return nil, fmt.Errorf("registration: %w", err)
	}
	return s, nil
}

// FromOpenAPI compiles the registration form from an OpenAPI component
// instead of the embedded declaration. The component must declare every
// registration path; the cross-field refinements are added either way.
func FromOpenAPI(ctx context.Context, raw []byte, component string, opts ...schema.Option) (*schema.Schema, error) {
	opts = append(opts, schema.WithRefinement(Refinements()...))
	s, err := schema.FromOpenAPI(ctx, raw, component, opts...)
	if err != nil {
		return nil, fmt.Errorf("registration: %w", err)
	}
	return s, nil
}

// MustSchema panics when the embedded declaration does not compile.
func MustSchema(opts ...schema.Option) *schema.Schema {
	s, err := NewSchema(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Refinements returns the root-level checks in evaluation order.
func Refinements() []schema.Refinement {
	return []schema.Refinement{
		{
			Name:    RuleEmailContainsPassword,
			Targets: []string{Email.String()},
			Check: func(v schema.Values) []schema.Issue {
				email := v.String(Email.String())
				password := v.String(Password.String())
				if !strings.Contains(email, password) {
					return nil
				}
				return []schema.Issue{{
					Path:       Email.String(),
					Message:    "อีเมลไม่ควรมีรหัสผ่านอยู่ภายใน (เพื่อความปลอดภัย)",
					MessageKey: string(i18n.ValidationEmailHasPassword),
				}}
			},
		},
		{
			Name:    RuleDistinctNames,
			Targets: []string{LastName.String()},
			Check: func(v schema.Values) []schema.Issue {
				if v.String(FirstName.String()) != v.String(LastName.String()) {
					return nil
				}
				return []schema.Issue{{
					Path:       LastName.String(),
					Message:    "ชื่อและนามสกุลควรแตกต่างกัน",
					MessageKey: string(i18n.ValidationLastNameMatchesName),
				}}
			},
		},
	}
}

// Registration is the typed payload handed to the submit callback.
type Registration struct {
	Email        string       `mapstructure:"email" json:"email"`
	Password     string       `mapstructure:"password" json:"password"`
	PersonalInfo PersonalInfo `mapstructure:"personalInfo" json:"personalInfo"`
	Preferences  Preferences  `mapstructure:"preferences" json:"preferences"`
}

type PersonalInfo struct {
	FirstName string `mapstructure:"firstName" json:"firstName"`
	LastName  string `mapstructure:"lastName" json:"lastName"`
	Phone     string `mapstructure:"phone" json:"phone"`
}

type Preferences struct {
	ReceiveNewsletters bool   `mapstructure:"receiveNewsletters" json:"receiveNewsletters"`
	Theme              string `mapstructure:"theme" json:"theme"`
}

// Decode converts a parsed value tree into a Registration. Keys outside the
// declaration are rejected.
func Decode(values schema.Values) (Registration, error) {
	var out Registration
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &out,
		ErrorUnused: true,
	})
	if err != nil {
		return Registration{}, fmt.Errorf("registration: build decoder: %w", err)
	}
	if err := dec.Decode(values.Map()); err != nil {
		return Registration{}, fmt.Errorf("registration: decode payload: %w", err)
	}
	return out, nil
}

// Masked returns a copy safe for display, with the password replaced.
func (r Registration) Masked() Registration {
	if r.Password != "" {
		r.Password = strings.Repeat("*", len([]rune(r.Password)))
	}
	return r
}
