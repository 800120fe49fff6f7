package schema

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/th"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	th_translations "github.com/go-playground/validator/v10/translations/th"
)

// Schema is a compiled rule tree. Leaves are validated in declaration order
// and root refinements run only once every leaf passed.
type Schema struct {
	fields      []Field
	leaves      []leaf
	index       map[string]int
	refinements []Refinement
	pending     []Refinement

	validate *validator.Validate
	uni      *ut.UniversalTranslator
	patterns int

	translator    MessageTranslator
	defaultLocale string
	logger        *slog.Logger
}

type leaf struct {
	path   string
	field  Field
	def    any
	checks []check
}

type check struct {
	rule Rule
	tag  string
}

// New compiles fields into a Schema.
func New(fields []Field, opts ...Option) (*Schema, error) {
	s := &Schema{
		fields:        fields,
		index:         make(map[string]int),
		defaultLocale: DefaultLocale,
		logger:        discardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if err := s.setupValidator(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields declared", ErrInvalidSchema)
	}
	if err := s.compile(fields, ""); err != nil {
		return nil, err
	}

	pending := s.pending
	s.pending = nil
	for _, refinement := range pending {
		if err := s.Refine(refinement); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustNew panics when the declaration cannot be compiled. Useful for
// package-level schemas built from embedded data.
func MustNew(fields []Field, opts ...Option) *Schema {
	s, err := New(fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Refine appends a root-level refinement. Every target must be a declared
// leaf path.
func (s *Schema) Refine(refinement Refinement) error {
	if refinement.Check == nil {
		return fmt.Errorf("%w: refinement %q has no check", ErrInvalidSchema, refinement.Name)
	}
	for _, target := range refinement.Targets {
		if _, ok := s.index[target]; !ok {
			return fmt.Errorf("refinement %q targets %q: %w", refinement.Name, target, ErrUnknownPath)
		}
	}
	s.refinements = append(s.refinements, refinement)
	return nil
}

func (s *Schema) setupValidator() error {
	s.validate = validator.New()

	enLocale := en.New()
	s.uni = ut.New(enLocale, enLocale, th.New())

	enTrans, _ := s.uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(s.validate, enTrans); err != nil {
		return fmt.Errorf("schema: register en translations: %w", err)
	}
	thTrans, _ := s.uni.GetTranslator("th")
	if err := th_translations.RegisterDefaultTranslations(s.validate, thTrans); err != nil {
		return fmt.Errorf("schema: register th translations: %w", err)
	}
	return nil
}

func (s *Schema) compile(fields []Field, prefix string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" || strings.Contains(name, ".") {
			return fmt.Errorf("%w: invalid field name %q under %q", ErrInvalidSchema, field.Name, prefix)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate field %q under %q", ErrInvalidSchema, name, prefix)
		}
		seen[name] = struct{}{}
		path := joinPath(prefix, name)

		if !field.IsLeaf() {
			if len(field.Fields) == 0 {
				return fmt.Errorf("%w: object %q declares no fields", ErrInvalidSchema, path)
			}
			if len(field.Rules) > 0 {
				return fmt.Errorf("%w: object %q cannot carry rules", ErrInvalidSchema, path)
			}
			if err := s.compile(field.Fields, path); err != nil {
				return err
			}
			continue
		}

		compiled, err := s.compileLeaf(path, field)
		if err != nil {
			return err
		}
		s.index[path] = len(s.leaves)
		s.leaves = append(s.leaves, compiled)
	}
	return nil
}

func (s *Schema) compileLeaf(path string, field Field) (leaf, error) {
	if len(field.Fields) > 0 {
		return leaf{}, fmt.Errorf("%w: leaf %q cannot declare nested fields", ErrInvalidSchema, path)
	}

	out := leaf{path: path, field: field}
	switch field.Type {
	case FieldTypeString:
		out.def = ""
		if field.Default != nil {
			str, ok := field.Default.(string)
			if !ok {
				return leaf{}, fmt.Errorf("%w: default for %q must be a string", ErrInvalidSchema, path)
			}
			out.def = str
		}
	case FieldTypeBoolean:
		out.def = false
		if field.Default != nil {
			b, ok := field.Default.(bool)
			if !ok {
				return leaf{}, fmt.Errorf("%w: default for %q must be a boolean", ErrInvalidSchema, path)
			}
			out.def = b
		}
	case FieldTypeEnum:
		if len(field.Enum) == 0 {
			return leaf{}, fmt.Errorf("%w: enum %q declares no values", ErrInvalidSchema, path)
		}
		out.def = ""
		if field.Default != nil {
			str, ok := field.Default.(string)
			if !ok || !contains(field.Enum, str) {
				return leaf{}, fmt.Errorf("%w: default %v for %q is not an enum value", ErrInvalidSchema, field.Default, path)
			}
			out.def = str
		}
		out.checks = append(out.checks, check{
			rule: Rule{Kind: RuleOneOf},
			tag:  oneOfTag(field.Enum),
		})
	default:
		return leaf{}, fmt.Errorf("%w: field %q has unsupported type %q", ErrInvalidSchema, path, field.Type)
	}

	for _, rule := range field.Rules {
		tag, err := s.ruleTag(path, field, rule)
		if err != nil {
			return leaf{}, err
		}
		if rule.Kind == RuleOneOf && field.Type == FieldTypeEnum {
			// explicit oneOf on an enum replaces the implicit membership check
			out.checks[0] = check{rule: rule, tag: tag}
			continue
		}
		out.checks = append(out.checks, check{rule: rule, tag: tag})
	}
	return out, nil
}

func (s *Schema) ruleTag(path string, field Field, rule Rule) (string, error) {
	if field.Type == FieldTypeBoolean {
		return "", fmt.Errorf("%w: boolean %q cannot carry %q rules", ErrInvalidSchema, path, rule.Kind)
	}

	switch rule.Kind {
	case RuleRequired:
		return "required", nil
	case RuleEmail:
		return "email", nil
	case RuleMinLength, RuleMaxLength:
		raw := strings.TrimSpace(rule.Params["value"])
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: %s on %q needs a non-negative value, got %q", ErrInvalidSchema, rule.Kind, path, raw)
		}
		if rule.Kind == RuleMinLength {
			return "min=" + strconv.Itoa(n), nil
		}
		return "max=" + strconv.Itoa(n), nil
	case RuleOneOf:
		values := field.Enum
		if raw := strings.TrimSpace(rule.Params["values"]); raw != "" {
			values = strings.Split(raw, ",")
		}
		if len(values) == 0 {
			return "", fmt.Errorf("%w: oneOf on %q needs values", ErrInvalidSchema, path)
		}
		return oneOfTag(values), nil
	case RulePattern:
		expr := rule.Params["pattern"]
		re, err := regexp.Compile(expr)
		if err != nil {
			return "", fmt.Errorf("%w: pattern on %q: %v", ErrInvalidSchema, path, err)
		}
		tag := fmt.Sprintf("regform_pattern_%d", s.patterns)
		s.patterns++
		err = s.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}, true)
		if err != nil {
			return "", fmt.Errorf("schema: register pattern for %q: %w", path, err)
		}
		return tag, nil
	default:
		return "", fmt.Errorf("%w: unknown rule %q on %q", ErrInvalidSchema, rule.Kind, path)
	}
}

// Validate runs the schema against candidate. Missing leaves take their
// declared default. Leaf rules short-circuit on the first failure per leaf;
// refinements run only when every leaf passed and all of their issues are
// collected.
func (s *Schema) Validate(candidate Values, opts ...ValidateOption) Result {
	cfg := validateConfig{locale: s.defaultLocale}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	parsed := make(Values)
	var issues []Issue
	for _, lf := range s.leaves {
		raw, ok := candidate.Get(lf.path)
		if !ok || raw == nil {
			raw = lf.def
		}
		value, issue := s.checkLeaf(lf, raw, cfg.locale)
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		if err := parsed.Set(lf.path, value); err != nil {
			issues = append(issues, Issue{Path: lf.path, Message: err.Error()})
		}
	}
	if len(issues) > 0 {
		return Result{Issues: issues}
	}

	for _, refinement := range s.refinements {
		for _, issue := range refinement.Check(parsed.Clone()) {
			issue.Message = s.resolve(cfg.locale, issue.MessageKey, issue.Message)
			if issue.Rule == "" {
				issue.Rule = refinement.Name
			}
			if _, known := s.index[issue.Path]; !known {
				s.logger.Warn("refinement issue targets undeclared path",
					"refinement", refinement.Name, "path", issue.Path)
			}
			issues = append(issues, issue)
		}
	}
	if len(issues) > 0 {
		return Result{Issues: issues}
	}
	return Result{Valid: true, Value: parsed}
}

func (s *Schema) checkLeaf(lf leaf, raw any, locale string) (any, *Issue) {
	switch lf.field.Type {
	case FieldTypeBoolean:
		if _, ok := raw.(bool); !ok {
			return nil, &Issue{
				Path:    lf.path,
				Rule:    "type",
				Message: fmt.Sprintf("expected boolean, received %T", raw),
			}
		}
	default:
		if _, ok := raw.(string); !ok {
			return nil, &Issue{
				Path:    lf.path,
				Rule:    "type",
				Message: fmt.Sprintf("expected string, received %T", raw),
			}
		}
	}

	for _, c := range lf.checks {
		err := s.validate.Var(raw, c.tag)
		if err == nil {
			continue
		}
		return nil, &Issue{
			Path:       lf.path,
			Rule:       c.rule.Kind,
			MessageKey: c.rule.MessageKey,
			Message:    s.ruleMessage(locale, lf, c, err),
		}
	}
	return raw, nil
}

// Defaults returns a fully populated value tree holding every declared
// leaf's default.
func (s *Schema) Defaults() Values {
	out := make(Values)
	for _, lf := range s.leaves {
		_ = out.Set(lf.path, lf.def)
	}
	return out
}

// Default returns the declared default for path.
func (s *Schema) Default(path string) (any, bool) {
	idx, ok := s.index[path]
	if !ok {
		return nil, false
	}
	return s.leaves[idx].def, true
}

// LeafPaths lists declared leaf paths in declaration order.
func (s *Schema) LeafPaths() []string {
	out := make([]string, 0, len(s.leaves))
	for _, lf := range s.leaves {
		out = append(out, lf.path)
	}
	return out
}

// Field returns the declaration for a leaf path.
func (s *Schema) Field(path string) (Field, bool) {
	idx, ok := s.index[path]
	if !ok {
		return Field{}, false
	}
	return s.leaves[idx].field, true
}

// Has reports whether path is a declared leaf.
func (s *Schema) Has(path string) bool {
	_, ok := s.index[path]
	return ok
}

// Fields returns the declared tree.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Label returns the display label for path in locale, falling back to the
// declared label and then to the last path segment.
func (s *Schema) Label(path, locale string) string {
	field, ok := s.Field(path)
	if !ok {
		return lastSegment(path)
	}
	fallback := strings.TrimSpace(field.Label)
	if fallback == "" {
		fallback = lastSegment(path)
	}
	return s.resolve(locale, field.LabelKey, fallback)
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

func oneOfTag(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.ContainsAny(v, " \t") {
			v = "'" + v + "'"
		}
		quoted = append(quoted, v)
	}
	return "oneof=" + strings.Join(quoted, " ")
}
