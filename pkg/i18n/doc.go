// Package i18n provides the t(key, options) lookup over a closed key set.
// Tables are YAML documents embedded per locale; lookups fall back to the
// default-locale table and support %{name} interpolation.
package i18n
