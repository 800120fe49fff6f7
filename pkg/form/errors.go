package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/goliatone/go-regform/pkg/schema"
)

var (
	// ErrNilSchema is returned when a controller is built without a schema.
	ErrNilSchema = errors.New("form: schema is required")
	// ErrTypeMismatch signals a typed path whose type disagrees with the
	// schema declaration.
	ErrTypeMismatch = errors.New("form: path type does not match schema")
)

// FieldError is the structured error displayed next to a field.
type FieldError struct {
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

func (e *FieldError) clone() *FieldError {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

func (c *Controller) unknownPath(path string) error {
	if suggestion := suggestPath(path, c.schema.LeafPaths()); suggestion != "" {
		return fmt.Errorf("%w: %q (did you mean %q?)", schema.ErrUnknownPath, path, suggestion)
	}
	return fmt.Errorf("%w: %q", schema.ErrUnknownPath, path)
}

// suggestPath returns the closest declared path when it is near enough to be
// a likely typo.
func suggestPath(path string, candidates []string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToLower(path), strings.ToLower(candidate))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	limit := len(path) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
