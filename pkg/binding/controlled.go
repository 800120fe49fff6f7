package binding

import (
	"fmt"

	"github.com/goliatone/go-regform/pkg/form"
)

// Controlled binds a widget to one typed path through a subscription. The
// widget is re-rendered only when that path's value or error changes and
// errors surface as structured *form.FieldError values.
type Controlled[T form.Scalar] struct {
	field       *form.Binding[T]
	props       Props
	onRender    func(View)
	unsubscribe func()
	renders     int
}

// ControlledOption configures a Controlled binding.
type ControlledOption[T form.Scalar] func(*Controlled[T])

// OnRender registers the widget's render callback.
func OnRender[T form.Scalar](fn func(View)) ControlledOption[T] {
	return func(c *Controlled[T]) {
		c.onRender = fn
	}
}

// NewControlled verifies path against the controller's schema and subscribes
// to it.
func NewControlled[T form.Scalar](ctrl *form.Controller, path form.Path[T], props Props, opts ...ControlledOption[T]) (*Controlled[T], error) {
	field, err := form.Field(ctrl, path)
	if err != nil {
		return nil, err
	}
	c := &Controlled[T]{field: field, props: props}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.props.Label == "" {
		c.props.Label = field.Label()
	}
	c.unsubscribe = field.Subscribe(func(form.FieldSnapshot) {
		c.render()
	})
	return c, nil
}

// Path returns the bound path.
func (c *Controlled[T]) Path() string {
	return c.field.Path()
}

// Value returns the typed value.
func (c *Controlled[T]) Value() T {
	return c.field.Value()
}

// Error returns the structured error, or nil.
func (c *Controlled[T]) Error() *form.FieldError {
	return c.field.Error()
}

// Change is the widget's onChange handler.
func (c *Controlled[T]) Change(value T) error {
	return c.field.OnChange(value)
}

// View renders the current state.
func (c *Controlled[T]) View() View {
	v := c.props.view()
	v.Value = fmt.Sprint(c.field.Value())
	if err := c.field.Error(); err != nil {
		v.HasError = true
		v.Error = err.Message
	}
	return v
}

// Renders counts how often the widget was asked to re-render.
func (c *Controlled[T]) Renders() int {
	return c.renders
}

// Close stops observing the path.
func (c *Controlled[T]) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Controlled[T]) render() {
	c.renders++
	if c.onRender != nil {
		c.onRender(c.View())
	}
}
