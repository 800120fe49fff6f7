// Package schema describes form constraints as data. A Schema is a tree of
// Field declarations whose leaves carry ordered Rule lists (required,
// minLength/maxLength, pattern, email, oneOf) evaluated through
// go-playground/validator. Root-level Refinements inspect the parsed object
// once every leaf passed and attach their issues to a chosen leaf path, so
// cross-field checks never surface on a pseudo-root field.
//
// Schemas can be declared in Go, decoded from YAML documents (LoadYAML) or
// imported from an OpenAPI component (FromOpenAPI). Messages are literal by
// default; MessageKey and LabelKey entries resolve through an optional
// MessageTranslator, and rules without a message fall back to the
// validator's translated default for the requested locale.
package schema
