package schema

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI builds a schema from a component schema declared in an OpenAPI
// 3 document. Object properties are declared in name order since OpenAPI
// maps carry no ordering. Refinements are supplied through WithRefinement.
func FromOpenAPI(ctx context.Context, raw []byte, component string, opts ...Option) (*Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: openapi document is empty", ErrInvalidSchema)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("%w: openapi document has no components", ErrInvalidSchema)
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: component %q not found", ErrInvalidSchema, component)
	}
	if !isType(ref.Value, "object") {
		return nil, fmt.Errorf("%w: component %q is not an object", ErrInvalidSchema, component)
	}

	fields, err := fieldsFromOpenAPI(ref.Value, component)
	if err != nil {
		return nil, err
	}
	return New(fields, opts...)
}

func fieldsFromOpenAPI(obj *openapi3.Schema, path string) ([]Field, error) {
	names := make([]string, 0, len(obj.Properties))
	for name := range obj.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]struct{}, len(obj.Required))
	for _, name := range obj.Required {
		required[name] = struct{}{}
	}

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		ref := obj.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		field, err := fieldFromOpenAPI(name, ref.Value, isRequired, joinPath(path, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func fieldFromOpenAPI(name string, prop *openapi3.Schema, required bool, path string) (Field, error) {
	field := Field{
		Name:    name,
		Label:   strings.TrimSpace(prop.Title),
		Default: prop.Default,
	}

	switch {
	case isType(prop, "object"):
		nested, err := fieldsFromOpenAPI(prop, path)
		if err != nil {
			return Field{}, err
		}
		field.Type = FieldTypeObject
		field.Fields = nested
		field.Default = nil
		return field, nil
	case isType(prop, "boolean"):
		field.Type = FieldTypeBoolean
		return field, nil
	case isType(prop, "string"):
	default:
		return Field{}, fmt.Errorf("%w: property %q has unsupported type", ErrInvalidSchema, path)
	}

	if len(prop.Enum) > 0 {
		field.Type = FieldTypeEnum
		for _, v := range prop.Enum {
			field.Enum = append(field.Enum, fmt.Sprint(v))
		}
		return field, nil
	}

	field.Type = FieldTypeString
	if required {
		field.Rules = append(field.Rules, Rule{Kind: RuleRequired})
	}
	if prop.MinLength > 0 {
		field.Rules = append(field.Rules, Rule{
			Kind:   RuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(prop.MinLength, 10)},
		})
	}
	if prop.MaxLength != nil {
		field.Rules = append(field.Rules, Rule{
			Kind:   RuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*prop.MaxLength, 10)},
		})
	}
	if prop.Pattern != "" {
		field.Rules = append(field.Rules, Rule{
			Kind:   RulePattern,
			Params: map[string]string{"pattern": prop.Pattern},
		})
	}
	if strings.EqualFold(prop.Format, "email") {
		field.Rules = append(field.Rules, Rule{Kind: RuleEmail})
	}
	return field, nil
}

func isType(s *openapi3.Schema, typ string) bool {
	if s == nil || s.Type == nil {
		return false
	}
	return s.Type.Is(typ)
}
