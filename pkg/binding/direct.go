package binding

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-regform/pkg/form"
)

// Transform rewrites raw input before it is stored.
type Transform func(string) string

// Numeric keeps digits and decimal points only. Other keystrokes are
// dropped, not rejected.
func Numeric(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripMarkup removes any HTML from input, leaving plain text.
func StripMarkup() Transform {
	policy := bluemonday.StrictPolicy()
	return func(text string) string {
		return html.UnescapeString(policy.Sanitize(text))
	}
}

// Input binds a widget directly to the controller's untyped get/set API.
// Every change runs the transforms, stores the result and clears the
// field's error.
type Input struct {
	ctrl       *form.Controller
	path       string
	props      Props
	numeric    bool
	transforms []Transform
	fallback   func(label string) string
}

// InputOption configures an Input.
type InputOption func(*Input)

// AsNumber filters input through Numeric and switches to the numeric
// keyboard.
func AsNumber() InputOption {
	return func(in *Input) {
		in.numeric = true
	}
}

// WithTransforms appends transforms applied in order after numeric
// filtering.
func WithTransforms(transforms ...Transform) InputOption {
	return func(in *Input) {
		for _, t := range transforms {
			if t != nil {
				in.transforms = append(in.transforms, t)
			}
		}
	}
}

// WithFallbackMessage builds the message shown when the field has an error
// without text.
func WithFallbackMessage(fn func(label string) string) InputOption {
	return func(in *Input) {
		if fn != nil {
			in.fallback = fn
		}
	}
}

// NewInput binds path. The path is not checked until the first Change.
func NewInput(ctrl *form.Controller, path string, props Props, opts ...InputOption) *Input {
	in := &Input{
		ctrl:  ctrl,
		path:  path,
		props: props,
		fallback: func(label string) string {
			return "please enter " + label
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}
	if in.numeric {
		in.props.Keyboard = KeyboardNumeric
		in.transforms = append([]Transform{Numeric}, in.transforms...)
	}
	return in
}

// Path returns the bound path.
func (in *Input) Path() string {
	return in.path
}

// Value reads the stored value as display text.
func (in *Input) Value() string {
	switch value := in.ctrl.GetValue(in.path).(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}

// Change is the widget's onChangeText handler.
func (in *Input) Change(text string) error {
	processed := text
	for _, t := range in.transforms {
		processed = t(processed)
	}
	if err := in.ctrl.SetValue(in.path, processed); err != nil {
		return err
	}
	in.ctrl.ClearError(in.path)
	return nil
}

// HasError reports whether an error is attached to the path.
func (in *Input) HasError() bool {
	_, ok := in.ctrl.Errors()[in.path]
	return ok
}

// ErrorMessage returns the attached message, the fallback when the error
// carries no text, or "" when there is no error.
func (in *Input) ErrorMessage() string {
	err, ok := in.ctrl.Errors()[in.path]
	if !ok {
		return ""
	}
	if msg := strings.TrimSpace(err.Message); msg != "" {
		return msg
	}
	return in.fallback(in.props.Label)
}

// View renders the current state.
func (in *Input) View() View {
	v := in.props.view()
	v.Value = in.Value()
	v.HasError = in.HasError()
	v.Error = in.ErrorMessage()
	return v
}
