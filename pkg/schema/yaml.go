package schema

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a schema declaration.
type Document struct {
	Fields []Field `yaml:"fields"`
}

// LoadYAML decodes a schema document and compiles it. Refinements are code
// and must be supplied through WithRefinement.
func LoadYAML(r io.Reader, opts ...Option) (*Schema, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrInvalidSchema)
	}
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidSchema, err)
	}
	return New(doc.Fields, opts...)
}

// LoadYAMLFile reads a schema document from fsys.
func LoadYAMLFile(fsys fs.FS, name string, opts ...Option) (*Schema, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("schema: open %s: %w", name, err)
	}
	defer f.Close()
	return LoadYAML(f, opts...)
}
