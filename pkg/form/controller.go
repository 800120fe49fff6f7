package form

import (
	"io"
	"log/slog"
	"reflect"
	"sort"
	"sync"

	"github.com/goliatone/go-regform/pkg/schema"
)

// FieldSnapshot is delivered to path observers whenever the observed field's
// value or error changes.
type FieldSnapshot struct {
	Path    string
	Value   any
	Touched bool
	Error   *FieldError
}

// Observer receives snapshots for a single path.
type Observer func(FieldSnapshot)

// Controller is the single owner of form state. It exposes a fine-grained
// path subscription API and a coarse get/set API over the same values so
// both binding styles share one source of truth.
type Controller struct {
	mu         sync.Mutex
	schema     *schema.Schema
	values     schema.Values
	errors     map[string]*FieldError
	touched    map[string]bool
	formErrors []string

	observers map[string]map[int]Observer
	nextID    int

	submitted   bool
	submitCount int

	prefill schema.Values
	locale  func() string
	logger  *slog.Logger
}

// New seeds a controller with every declared default.
func New(s *schema.Schema, opts ...Option) (*Controller, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	c := &Controller{
		schema:    s,
		values:    s.Defaults(),
		errors:    make(map[string]*FieldError),
		touched:   make(map[string]bool),
		observers: make(map[string]map[int]Observer),
		locale:    func() string { return schema.DefaultLocale },
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	for _, path := range s.LeafPaths() {
		if _, ok := c.values.Get(path); !ok {
			return nil, c.unknownPath(path)
		}
	}
	if err := c.applyPrefill(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) applyPrefill() error {
	if len(c.prefill) == 0 {
		return nil
	}
	var paths []string
	collectLeafPaths(c.prefill, "", &paths)
	sort.Strings(paths)
	for _, path := range paths {
		if !c.schema.Has(path) {
			return c.unknownPath(path)
		}
		value, _ := c.prefill.Get(path)
		if err := c.values.Set(path, value); err != nil {
			return err
		}
	}
	c.prefill = nil
	return nil
}

func collectLeafPaths(values map[string]any, prefix string, dest *[]string) {
	for key, value := range values {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			collectLeafPaths(nested, path, dest)
			continue
		}
		if nested, ok := value.(schema.Values); ok {
			collectLeafPaths(nested, path, dest)
			continue
		}
		*dest = append(*dest, path)
	}
}

// Schema returns the schema the controller validates against.
func (c *Controller) Schema() *schema.Schema {
	return c.schema
}

// Locale returns the locale used for messages and labels.
func (c *Controller) Locale() string {
	return c.locale()
}

// Label returns the localized label for path.
func (c *Controller) Label(path string) string {
	return c.schema.Label(path, c.locale())
}

// GetValue returns the current value of path, which is the schema default
// until SetValue writes it. Unknown paths return nil.
func (c *Controller) GetValue(path string) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, ok := c.values.Get(path); ok {
		return value
	}
	def, _ := c.schema.Default(path)
	return def
}

// Lookup is GetValue with an error for undeclared paths.
func (c *Controller) Lookup(path string) (any, error) {
	if !c.schema.Has(path) {
		return nil, c.unknownPath(path)
	}
	return c.GetValue(path), nil
}

// SetValue overwrites the value at path. It never validates.
func (c *Controller) SetValue(path string, value any) error {
	if !c.schema.Has(path) {
		return c.unknownPath(path)
	}

	c.mu.Lock()
	current, _ := c.values.Get(path)
	if reflect.DeepEqual(current, value) {
		c.mu.Unlock()
		return nil
	}
	if err := c.values.Set(path, value); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.snapshotLocked(path)
	observers := c.observersLocked(path)
	c.mu.Unlock()

	notify(observers, snap)
	return nil
}

// Touch marks path as visited by the user, the equivalent of a blur.
func (c *Controller) Touch(path string) error {
	if !c.schema.Has(path) {
		return c.unknownPath(path)
	}

	c.mu.Lock()
	if c.touched[path] {
		c.mu.Unlock()
		return nil
	}
	c.touched[path] = true
	snap := c.snapshotLocked(path)
	observers := c.observersLocked(path)
	c.mu.Unlock()

	notify(observers, snap)
	return nil
}

// Touched reports whether path was marked with Touch.
func (c *Controller) Touched(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched[path]
}

// ClearError removes the displayed error for path regardless of whether the
// current value is valid.
func (c *Controller) ClearError(path string) {
	c.mu.Lock()
	if _, ok := c.errors[path]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.errors, path)
	snap := c.snapshotLocked(path)
	observers := c.observersLocked(path)
	c.mu.Unlock()

	notify(observers, snap)
}

// SetError attaches err to path, replacing any existing error. It is meant
// for failures reported outside the schema, such as a rejected submission.
func (c *Controller) SetError(path string, err FieldError) error {
	if !c.schema.Has(path) {
		return c.unknownPath(path)
	}

	c.mu.Lock()
	if current := c.errors[path]; current != nil && *current == err {
		c.mu.Unlock()
		return nil
	}
	next := err
	c.errors[path] = &next
	snap := c.snapshotLocked(path)
	observers := c.observersLocked(path)
	c.mu.Unlock()

	notify(observers, snap)
	return nil
}

// Error returns a copy of the error currently attached to path, or nil.
func (c *Controller) Error(path string) *FieldError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[path].clone()
}

// Errors returns a copy of every field error keyed by path.
func (c *Controller) Errors() map[string]FieldError {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.errors) == 0 {
		return nil
	}
	out := make(map[string]FieldError, len(c.errors))
	for path, err := range c.errors {
		out[path] = *err
	}
	return out
}

// FormErrors returns issues that could not be attached to a declared field.
func (c *Controller) FormErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.formErrors...)
}

// Values returns a deep copy of the current state.
func (c *Controller) Values() schema.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone()
}

// Submitted reports whether ValidateAndSubmit ran at least once since the
// last Reset.
func (c *Controller) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// SubmitCount returns the number of submit attempts since the last Reset.
func (c *Controller) SubmitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitCount
}

// ValidateAndSubmit validates the whole state. On success every error is
// cleared and onValid receives the parsed object exactly once. On failure
// the field errors are replaced in a single step and onValid is not called.
func (c *Controller) ValidateAndSubmit(onValid func(schema.Values)) bool {
	c.mu.Lock()
	c.submitted = true
	c.submitCount++
	result := c.schema.Validate(c.values, schema.InLocale(c.locale()))

	next := make(map[string]*FieldError)
	var formErrors []string
	for _, issue := range result.Issues {
		if !c.schema.Has(issue.Path) {
			formErrors = append(formErrors, issue.Message)
			continue
		}
		if _, exists := next[issue.Path]; exists {
			continue
		}
		next[issue.Path] = &FieldError{Message: issue.Message, Rule: issue.Rule}
	}

	changed := changedPaths(c.errors, next)
	c.errors = next
	c.formErrors = normalizeMessages(formErrors)

	type delivery struct {
		snap      FieldSnapshot
		observers []Observer
	}
	deliveries := make([]delivery, 0, len(changed))
	for _, path := range changed {
		deliveries = append(deliveries, delivery{
			snap:      c.snapshotLocked(path),
			observers: c.observersLocked(path),
		})
	}
	attempt := c.submitCount
	c.mu.Unlock()

	for _, d := range deliveries {
		notify(d.observers, d.snap)
	}

	if !result.Valid {
		c.logger.Debug("form submit rejected", "attempt", attempt, "issues", len(result.Issues))
		return false
	}
	c.logger.Debug("form submit accepted", "attempt", attempt)
	if onValid != nil {
		onValid(result.Value)
	}
	return true
}

// Trigger re-validates the whole state and updates only the error of path.
// It reports whether path is currently free of issues.
func (c *Controller) Trigger(path string) (bool, error) {
	if !c.schema.Has(path) {
		return false, c.unknownPath(path)
	}

	c.mu.Lock()
	result := c.schema.Validate(c.values, schema.InLocale(c.locale()))
	var next *FieldError
	for _, issue := range result.Issues {
		if issue.Path == path {
			next = &FieldError{Message: issue.Message, Rule: issue.Rule}
			break
		}
	}

	current := c.errors[path]
	if reflect.DeepEqual(current, next) {
		c.mu.Unlock()
		return next == nil, nil
	}
	if next == nil {
		delete(c.errors, path)
	} else {
		c.errors[path] = next
	}
	snap := c.snapshotLocked(path)
	observers := c.observersLocked(path)
	c.mu.Unlock()

	notify(observers, snap)
	return next == nil, nil
}

// Subscribe registers fn for changes to exactly one path. The returned
// function removes the observer.
func (c *Controller) Subscribe(path string, fn Observer) (func(), error) {
	if !c.schema.Has(path) {
		return nil, c.unknownPath(path)
	}
	if fn == nil {
		return func() {}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	if c.observers[path] == nil {
		c.observers[path] = make(map[int]Observer)
	}
	c.observers[path][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.observers[path], id)
			if len(c.observers[path]) == 0 {
				delete(c.observers, path)
			}
		})
	}, nil
}

// Snapshot returns the current value and error for path.
func (c *Controller) Snapshot(path string) FieldSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(path)
}

// Reset discards every value, error and submit flag, returning the state to
// schema defaults. Observers stay registered and are told about paths whose
// value or error changed.
func (c *Controller) Reset() {
	c.mu.Lock()
	defaults := c.schema.Defaults()
	var changed []string
	for _, path := range c.schema.LeafPaths() {
		before, _ := c.values.Get(path)
		after, _ := defaults.Get(path)
		if !reflect.DeepEqual(before, after) || c.errors[path] != nil || c.touched[path] {
			changed = append(changed, path)
		}
	}
	c.values = defaults
	c.errors = make(map[string]*FieldError)
	c.touched = make(map[string]bool)
	c.formErrors = nil
	c.submitted = false
	c.submitCount = 0

	snaps := make([]FieldSnapshot, 0, len(changed))
	observers := make([][]Observer, 0, len(changed))
	for _, path := range changed {
		snaps = append(snaps, c.snapshotLocked(path))
		observers = append(observers, c.observersLocked(path))
	}
	c.mu.Unlock()

	for i := range snaps {
		notify(observers[i], snaps[i])
	}
}

func (c *Controller) snapshotLocked(path string) FieldSnapshot {
	value, _ := c.values.Get(path)
	return FieldSnapshot{
		Path:    path,
		Value:   value,
		Touched: c.touched[path],
		Error:   c.errors[path].clone(),
	}
}

func (c *Controller) observersLocked(path string) []Observer {
	registered := c.observers[path]
	if len(registered) == 0 {
		return nil
	}
	ids := make([]int, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Observer, 0, len(ids))
	for _, id := range ids {
		out = append(out, registered[id])
	}
	return out
}

func notify(observers []Observer, snap FieldSnapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}

func changedPaths(before, after map[string]*FieldError) []string {
	seen := make(map[string]struct{}, len(before)+len(after))
	var out []string
	for path, err := range before {
		if !reflect.DeepEqual(err, after[path]) {
			out = append(out, path)
		}
		seen[path] = struct{}{}
	}
	for path := range after {
		if _, ok := seen[path]; ok {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
