package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// DeviceDetector reports the device's preferred language tag, e.g.
// "th_TH.UTF-8" or "en-US". An empty string means unknown.
type DeviceDetector func() string

// EnvDevice reads the POSIX locale variables in precedence order.
func EnvDevice() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANGUAGE", "LANG"} {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			if name == "LANGUAGE" {
				value, _, _ = strings.Cut(value, ":")
			}
			return value
		}
	}
	return ""
}

// FixedDevice returns a detector that always reports tag.
func FixedDevice(tag string) DeviceDetector {
	return func() string { return tag }
}

// FromDevice maps a raw device tag onto a supported locale using its base
// language.
func FromDevice(raw string) (Locale, bool) {
	tag := normalizeTag(raw)
	if tag == "" {
		return "", false
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, confidence := parsed.Base()
	if confidence == language.No {
		return "", false
	}
	return Parse(base.String())
}

func normalizeTag(raw string) string {
	tag := strings.TrimSpace(raw)
	if idx := strings.IndexAny(tag, ".@"); idx >= 0 {
		tag = tag[:idx]
	}
	switch strings.ToUpper(tag) {
	case "", "C", "POSIX":
		return ""
	}
	return strings.ReplaceAll(tag, "_", "-")
}
