package schema

import (
	"io"
	"log/slog"
	"strings"
)

// DefaultLocale is used for messages when no locale is requested.
const DefaultLocale = "en"

// Option configures a Schema.
type Option func(*Schema)

// WithLogger routes schema diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Schema) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMessageTranslator resolves MessageKey and LabelKey entries.
func WithMessageTranslator(t MessageTranslator) Option {
	return func(s *Schema) {
		s.translator = t
	}
}

// WithDefaultLocale sets the locale used when Validate is called without
// InLocale.
func WithDefaultLocale(locale string) Option {
	return func(s *Schema) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			s.defaultLocale = trimmed
		}
	}
}

// WithRefinement appends root-level refinements in declaration order.
func WithRefinement(refinements ...Refinement) Option {
	return func(s *Schema) {
		s.pending = append(s.pending, refinements...)
	}
}

// ValidateOption tweaks a single Validate call.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	locale string
}

// InLocale selects the locale used to resolve messages for one call.
func InLocale(locale string) ValidateOption {
	return func(cfg *validateConfig) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			cfg.locale = trimmed
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
