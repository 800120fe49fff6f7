package schema

import (
	"fmt"
	"strings"
)

// Values is a tree of named values addressed by dotted paths such as
// "personalInfo.firstName". Nested objects are represented as
// map[string]any.
type Values map[string]any

// Get resolves a dotted path. The boolean reports whether the path exists.
func (v Values) Get(path string) (any, bool) {
	return getPath(v, path)
}

// String returns the string stored at path or "" when the slot is missing or
// holds another type.
func (v Values) String(path string) string {
	raw, ok := getPath(v, path)
	if !ok {
		return ""
	}
	str, _ := raw.(string)
	return str
}

// Bool returns the boolean stored at path or false.
func (v Values) Bool(path string) bool {
	raw, ok := getPath(v, path)
	if !ok {
		return false
	}
	b, _ := raw.(bool)
	return b
}

// Set writes value at path, creating intermediate objects as needed.
func (v Values) Set(path string, value any) error {
	if v == nil {
		return fmt.Errorf("schema: values map is nil")
	}
	return setPath(v, path, value)
}

// Clone returns a deep copy of the tree.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = deepCopy(val)
	}
	return out
}

// Map returns the tree as a plain map, convenient for encoders that do not
// know about Values.
func (v Values) Map() map[string]any {
	return map[string]any(v.Clone())
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case Values:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	for _, segment := range strings.Split(path, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		next, ok := node[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func setPath(root map[string]any, path string, value any) error {
	if path == "" {
		return fmt.Errorf("schema: empty path")
	}
	segments := strings.Split(path, ".")
	node := root
	for i, segment := range segments {
		if segment == "" {
			return fmt.Errorf("schema: empty segment in path %q", path)
		}
		if i == len(segments)-1 {
			node[segment] = value
			return nil
		}
		child, ok := asMap(node[segment])
		if !ok {
			if existing, present := node[segment]; present && existing != nil {
				return fmt.Errorf("schema: segment %q of %q is not an object", segment, path)
			}
			child = make(map[string]any)
		}
		node[segment] = child
		node = child
	}
	return nil
}

func asMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case Values:
		return map[string]any(typed), true
	default:
		return nil, false
	}
}
