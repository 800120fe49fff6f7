package i18n

import (
	"fmt"
	"strings"
)

// MissingTranslationHandler decides what to show when a key cannot be
// resolved.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Param is a single interpolation value for %{name} placeholders.
type Param struct {
	Name  string
	Value any
}

// TOption adjusts a single T call.
type TOption func(*tConfig)

type tConfig struct {
	params   map[string]any
	fallback string
	locale   string
}

// With binds an interpolation parameter.
func With(name string, value any) TOption {
	return func(cfg *tConfig) {
		if cfg.params == nil {
			cfg.params = make(map[string]any)
		}
		cfg.params[name] = value
	}
}

// Default is returned when the key is missing from every table.
func Default(text string) TOption {
	return func(cfg *tConfig) {
		cfg.fallback = text
	}
}

// InLocale overrides the active locale for one call.
func InLocale(locale string) TOption {
	return func(cfg *tConfig) {
		cfg.locale = locale
	}
}

// Translator binds a catalog to the active locale.
type Translator struct {
	catalog   *Catalog
	current   func() string
	onMissing MissingTranslationHandler
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithMissingHandler overrides the default missing-key behaviour.
func WithMissingHandler(fn MissingTranslationHandler) TranslatorOption {
	return func(t *Translator) {
		if fn != nil {
			t.onMissing = fn
		}
	}
}

// NewTranslator returns a translator that reads the active locale from
// current on every lookup.
func NewTranslator(catalog *Catalog, current func() string, opts ...TranslatorOption) *Translator {
	if current == nil {
		current = func() string { return catalog.DefaultLocale() }
	}
	t := &Translator{
		catalog:   catalog,
		current:   current,
		onMissing: missingTranslationDefault,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Locale returns the active locale.
func (t *Translator) Locale() string {
	return t.current()
}

// T translates key in the active locale.
func (t *Translator) T(key Key, opts ...TOption) string {
	cfg := tConfig{locale: t.current()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	msg, err := t.catalog.Translate(cfg.locale, string(key), cfg.params)
	if err == nil {
		return msg
	}
	if cfg.fallback != "" {
		return interpolate(cfg.fallback, cfg.params)
	}
	return t.onMissing(cfg.locale, string(key), []any{cfg.params}, err)
}

// Translate satisfies the locale/key/args translator contract used by the
// schema package.
func (t *Translator) Translate(locale, key string, args ...any) (string, error) {
	return t.catalog.Translate(locale, key, args...)
}

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

func collectParams(args []any) map[string]any {
	var out map[string]any
	for _, arg := range args {
		switch typed := arg.(type) {
		case map[string]any:
			for k, v := range typed {
				if out == nil {
					out = make(map[string]any)
				}
				out[k] = v
			}
		case Param:
			if out == nil {
				out = make(map[string]any)
			}
			out[typed.Name] = typed.Value
		}
	}
	return out
}

// interpolate replaces %{name} placeholders. Unknown placeholders are left
// untouched.
func interpolate(msg string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(msg, "%{") {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "%{"+name+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
