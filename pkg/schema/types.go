package schema

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeObject  FieldType = "object"
)

const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleEmail     = "email"
	RuleOneOf     = "oneOf"
)

// Rule is a single predicate attached to a leaf field. Length limits encode
// their threshold in Params["value"] while pattern rules carry the expression
// in Params["pattern"].
//
// Message is shown verbatim when MessageKey is empty or cannot be resolved by
// the configured MessageTranslator.
type Rule struct {
	Kind       string            `json:"kind" yaml:"kind"`
	Params     map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message    string            `json:"message,omitempty" yaml:"message,omitempty"`
	MessageKey string            `json:"messageKey,omitempty" yaml:"messageKey,omitempty"`
}

// Field declares one node of the schema tree. Object fields carry nested
// Fields; every other type is a leaf.
type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Type     FieldType `json:"type" yaml:"type"`
	Label    string    `json:"label,omitempty" yaml:"label,omitempty"`
	LabelKey string    `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	Default  any       `json:"default,omitempty" yaml:"default,omitempty"`
	Enum     []string  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Rules    []Rule    `json:"rules,omitempty" yaml:"rules,omitempty"`
	Fields   []Field   `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// IsLeaf reports whether the field is a terminal entry.
func (f Field) IsLeaf() bool {
	return f.Type != FieldTypeObject
}

// Issue is a single validation failure tagged with the dotted path of the
// field it belongs to.
type Issue struct {
	Path       string `json:"path"`
	Message    string `json:"message"`
	MessageKey string `json:"messageKey,omitempty"`
	Rule       string `json:"rule,omitempty"`
}

// Result captures the outcome of a Validate call. Value holds the parsed
// candidate (declared leaves only, defaults applied) and is only set when
// Valid is true.
type Result struct {
	Valid  bool    `json:"valid"`
	Value  Values  `json:"value,omitempty"`
	Issues []Issue `json:"issues,omitempty"`
}

// Refinement is a root-level check that runs against the fully parsed
// candidate after every leaf passed. Targets lists the paths the check may
// attach issues to.
type Refinement struct {
	Name    string
	Targets []string
	Check   func(Values) []Issue
}

// MessageTranslator resolves message and label keys for a locale.
type MessageTranslator interface {
	Translate(locale, key string, args ...any) (string, error)
}
