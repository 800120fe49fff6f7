package schema

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

const signupYAML = `
fields:
  - name: email
    type: string
    label: Email
    rules:
      - kind: required
        message: email required
      - kind: email
        message: email invalid
  - name: preferences
    type: object
    fields:
      - name: receiveNewsletters
        type: boolean
        default: false
      - name: theme
        type: enum
        enum: [light, dark, system]
        default: system
`

func TestLoadYAML_CompilesDeclaration(t *testing.T) {
	s, err := LoadYAML(strings.NewReader(signupYAML))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}

	want := []string{"email", "preferences.receiveNewsletters", "preferences.theme"}
	if diff := cmp.Diff(want, s.LeafPaths()); diff != "" {
		t.Fatalf("leaf paths mismatch (-want +got):\n%s", diff)
	}

	result := s.Validate(Values{"email": "nope"})
	if len(result.Issues) != 1 || result.Issues[0].Message != "email invalid" {
		t.Fatalf("unexpected issues %#v", result.Issues)
	}
	if got := s.Label("email", "en"); got != "Email" {
		t.Fatalf("expected declared label, got %q", got)
	}
}

func TestLoadYAMLFile_ReadsFromFS(t *testing.T) {
	fsys := fstest.MapFS{"schemas/signup.yaml": {Data: []byte(signupYAML)}}
	if _, err := LoadYAMLFile(fsys, "schemas/signup.yaml"); err != nil {
		t.Fatalf("load yaml file: %v", err)
	}
	if _, err := LoadYAMLFile(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadYAML_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("fields:\n  - name: a\n    type: string\n    bogus: true\n"))
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	if _, err := LoadYAML(strings.NewReader("")); !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema for empty document, got %v", err)
	}
}

const signupOpenAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "signup", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Signup": {
        "type": "object",
        "required": ["email", "password"],
        "properties": {
          "email": {"type": "string", "format": "email", "title": "Email"},
          "password": {"type": "string", "minLength": 6},
          "phone": {"type": "string", "pattern": "^\\d{10}$"},
          "theme": {"type": "string", "enum": ["light", "dark", "system"], "default": "system"},
          "newsletter": {"type": "boolean", "default": false}
        }
      }
    }
  }
}`

func TestFromOpenAPI_BuildsRules(t *testing.T) {
	s, err := FromOpenAPI(context.Background(), []byte(signupOpenAPI), "Signup")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	want := []string{"email", "newsletter", "password", "phone", "theme"}
	if diff := cmp.Diff(want, s.LeafPaths()); diff != "" {
		t.Fatalf("leaf paths mismatch (-want +got):\n%s", diff)
	}

	field, _ := s.Field("email")
	kinds := make([]string, 0, len(field.Rules))
	for _, rule := range field.Rules {
		kinds = append(kinds, rule.Kind)
	}
	if diff := cmp.Diff([]string{RuleRequired, RuleEmail}, kinds); diff != "" {
		t.Fatalf("email rules mismatch (-want +got):\n%s", diff)
	}

	result := s.Validate(Values{"email": "a@b.com", "password": "secret1", "phone": "081-234-5678"})
	if len(result.Issues) != 1 || result.Issues[0].Path != "phone" {
		t.Fatalf("expected phone issue, got %#v", result.Issues)
	}
	if theme, _ := s.Default("theme"); theme != "system" {
		t.Fatalf("expected enum default, got %#v", theme)
	}
}

func TestFromOpenAPI_MissingComponent(t *testing.T) {
	_, err := FromOpenAPI(context.Background(), []byte(signupOpenAPI), "Nope")
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}
