package locale

import "strings"

// Locale is the active display language. The set is closed.
type Locale string

const (
	English Locale = "en"
	Thai    Locale = "th"

	// Default is used when neither storage nor the device yield a
	// supported locale.
	Default = English
)

// StorageKey is the single key the preference is persisted under.
const StorageKey = "userLocale"

// Supported lists every locale in display order.
func Supported() []Locale {
	return []Locale{English, Thai}
}

// Parse accepts an exact locale identifier.
func Parse(raw string) (Locale, bool) {
	switch Locale(strings.TrimSpace(raw)) {
	case English:
		return English, true
	case Thai:
		return Thai, true
	default:
		return "", false
	}
}

// Valid reports whether l belongs to the supported set.
func (l Locale) Valid() bool {
	_, ok := Parse(string(l))
	return ok
}

// Toggle returns the other locale. Unsupported values toggle to Thai as if
// they were the default.
func (l Locale) Toggle() Locale {
	if l == Thai {
		return English
	}
	return Thai
}

func (l Locale) String() string {
	return string(l)
}
