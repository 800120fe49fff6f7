package form

import (
	"log/slog"

	"github.com/goliatone/go-regform/pkg/schema"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLocale supplies the active locale used when resolving validation
// messages and labels. The function is called on every lookup so locale
// changes apply to the next validation run.
func WithLocale(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.locale = fn
		}
	}
}

// WithValues prefills the state on top of schema defaults. Unknown paths make
// New fail.
func WithValues(values map[string]any) Option {
	return func(c *Controller) {
		c.prefill = schema.Values(values).Clone()
	}
}
