package schema

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const fallbackFormatMessage = "has an invalid format"

// resolve translates key in locale, returning fallback when no translator is
// configured or the key is missing.
func (s *Schema) resolve(locale, key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" || s.translator == nil {
		return fallback
	}
	result, err := s.translator.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return ""
}

// ruleMessage picks the author-provided message for a failing rule, or the
// validator's translated default prefixed with the field label.
func (s *Schema) ruleMessage(locale string, lf leaf, c check, err error) string {
	if msg := s.resolve(locale, c.rule.MessageKey, c.rule.Message); strings.TrimSpace(msg) != "" {
		return msg
	}

	label := s.Label(lf.path, locale)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return joinMessage(label, fallbackFormatMessage)
	}
	fe := verrs[0]

	trans, _ := s.uni.FindTranslator(locale, s.defaultLocale)
	if trans == nil {
		return joinMessage(label, fallbackFormatMessage)
	}
	msg := fe.Translate(trans)
	if msg == fe.Error() {
		// no translation registered for the tag (custom patterns)
		return joinMessage(label, fallbackFormatMessage)
	}
	return joinMessage(label, msg)
}

func joinMessage(label, msg string) string {
	label = strings.TrimSpace(label)
	msg = strings.TrimSpace(msg)
	if label == "" {
		return msg
	}
	return label + " " + msg
}
