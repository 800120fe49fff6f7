package form

import (
	"fmt"

	"github.com/goliatone/go-regform/pkg/schema"
)

// Scalar lists the leaf value types a typed path can carry.
type Scalar interface {
	string | bool
}

// Path is a dotted field path tagged with the Go type of its value. Declare
// paths next to the schema they address so callers cannot mix a boolean
// path into a string binding.
type Path[T Scalar] struct {
	name string
}

// StringPath declares a path for string and enum leaves.
func StringPath(name string) Path[string] {
	return Path[string]{name: name}
}

// BoolPath declares a path for boolean leaves.
func BoolPath(name string) Path[bool] {
	return Path[bool]{name: name}
}

// String returns the dotted path.
func (p Path[T]) String() string {
	return p.name
}

// Binding is a live handle on a single typed field.
type Binding[T Scalar] struct {
	ctrl *Controller
	path string
}

// Field verifies path against the controller's schema and returns a typed
// binding for it.
func Field[T Scalar](c *Controller, path Path[T]) (*Binding[T], error) {
	if c == nil {
		return nil, fmt.Errorf("form: controller is nil")
	}
	decl, ok := c.schema.Field(path.name)
	if !ok {
		return nil, c.unknownPath(path.name)
	}
	if !typeMatches[T](decl.Type) {
		var zero T
		return nil, fmt.Errorf("%w: %q is %s, binding wants %T", ErrTypeMismatch, path.name, decl.Type, zero)
	}
	return &Binding[T]{ctrl: c, path: path.name}, nil
}

// MustField panics when Field fails. Intended for paths declared alongside
// a package-level schema.
func MustField[T Scalar](c *Controller, path Path[T]) *Binding[T] {
	b, err := Field(c, path)
	if err != nil {
		panic(err)
	}
	return b
}

func typeMatches[T Scalar](ft schema.FieldType) bool {
	var zero T
	switch any(zero).(type) {
	case string:
		return ft == schema.FieldTypeString || ft == schema.FieldTypeEnum
	case bool:
		return ft == schema.FieldTypeBoolean
	default:
		return false
	}
}

// Path returns the dotted path of the binding.
func (b *Binding[T]) Path() string {
	return b.path
}

// Label returns the localized field label.
func (b *Binding[T]) Label() string {
	return b.ctrl.Label(b.path)
}

// Value returns the current value, or the zero value when the state holds a
// different type.
func (b *Binding[T]) Value() T {
	value, _ := b.ctrl.GetValue(b.path).(T)
	return value
}

// Error returns the structured error for the field, or nil.
func (b *Binding[T]) Error() *FieldError {
	return b.ctrl.Error(b.path)
}

// OnChange stores value. After the first submit attempt the field is
// re-validated so its error tracks the edit.
func (b *Binding[T]) OnChange(value T) error {
	if err := b.ctrl.SetValue(b.path, value); err != nil {
		return err
	}
	if !b.ctrl.Submitted() {
		return nil
	}
	_, err := b.ctrl.Trigger(b.path)
	return err
}

// Subscribe observes this field only.
func (b *Binding[T]) Subscribe(fn Observer) func() {
	unsubscribe, err := b.ctrl.Subscribe(b.path, fn)
	if err != nil {
		// the path was verified when the binding was created
		return func() {}
	}
	return unsubscribe
}
