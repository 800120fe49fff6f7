package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var embeddedTables embed.FS

// DefaultLocale is the table lookups fall back to.
const DefaultLocale = "en"

var (
	// ErrMissingTranslation is returned when neither the requested nor the
	// default table defines a key.
	ErrMissingTranslation = errors.New("i18n: missing translation")
	// ErrUnknownKey is returned when a table declares a key outside the
	// closed key set.
	ErrUnknownKey = errors.New("i18n: unknown key")
)

// Catalog holds one string table per locale.
type Catalog struct {
	tables        map[string]map[string]string
	defaultLocale string
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithDefaultLocale overrides the fallback table.
func WithDefaultLocale(locale string) CatalogOption {
	return func(c *Catalog) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			c.defaultLocale = trimmed
		}
	}
}

// NewCatalog loads the embedded tables.
func NewCatalog(opts ...CatalogOption) (*Catalog, error) {
	sub, err := fs.Sub(embeddedTables, "translations")
	if err != nil {
		return nil, fmt.Errorf("i18n: embedded tables: %w", err)
	}
	return LoadCatalog(sub, opts...)
}

// MustCatalog panics when the embedded tables are invalid.
func MustCatalog(opts ...CatalogOption) *Catalog {
	c, err := NewCatalog(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads every <locale>.yaml file at the root of fsys. The default
// table must define every key; other tables may be partial.
func LoadCatalog(fsys fs.FS, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		tables:        make(map[string]map[string]string),
		defaultLocale: DefaultLocale,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("i18n: list tables: %w", err)
	}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: decode %s: %w", name, err)
		}
		for key := range table {
			if !Known(key) {
				return nil, fmt.Errorf("%w: %q in %s", ErrUnknownKey, key, name)
			}
		}
		locale := strings.TrimSuffix(path.Base(name), ".yaml")
		c.tables[locale] = table
	}

	def, ok := c.tables[c.defaultLocale]
	if !ok {
		return nil, fmt.Errorf("i18n: default table %q not found", c.defaultLocale)
	}
	for _, key := range allKeys {
		if strings.TrimSpace(def[string(key)]) == "" {
			return nil, fmt.Errorf("%w: %q in default table %q", ErrMissingTranslation, key, c.defaultLocale)
		}
	}
	return c, nil
}

// Locales lists the loaded tables.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.tables))
	for locale := range c.tables {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// DefaultLocale returns the fallback table name.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Translate resolves key in locale, falling back to the default table.
// Interpolation parameters are read from map[string]any or Param arguments.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	msg, ok := c.lookup(locale, key)
	if !ok {
		return "", fmt.Errorf("%w: %q (%s)", ErrMissingTranslation, key, locale)
	}
	return interpolate(msg, collectParams(args)), nil
}

func (c *Catalog) lookup(locale, key string) (string, bool) {
	if msg, ok := c.tables[locale][key]; ok && strings.TrimSpace(msg) != "" {
		return msg, true
	}
	if msg, ok := c.tables[c.defaultLocale][key]; ok && strings.TrimSpace(msg) != "" {
		return msg, true
	}
	return "", false
}
