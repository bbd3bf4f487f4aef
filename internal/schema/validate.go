package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a document does not satisfy the schema.
var ErrInvalid = errors.New("request does not match schema")

// ValidationError represents a single schema violation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the string representation of the validation error.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error returns the string representation of all validation errors.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateFile validates path against the embedded schema.
func ValidateFile(path string) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.ValidateFile(path)
}

// ValidateFile reads and parses path, then validates the document.
func (s *Schema) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: malformed YAML: %v", ErrInvalid, err)
	}

	var root map[string]any
	switch v := doc.(type) {
	case nil:
		root = map[string]any{}
	case map[string]any:
		root = v
	default:
		return fmt.Errorf("%w: top level must be a mapping, got %s", ErrInvalid, describe(doc))
	}

	return s.Validate(root)
}

// Validate checks doc against the schema and reports every violation.
// Keys the schema does not describe are allowed.
func (s *Schema) Validate(doc map[string]any) error {
	var errs ValidationErrors
	validateMapping(s.Fields, doc, "", &errs)
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errs)
	}
	return nil
}

func validateMapping(fields []Field, doc map[string]any, prefix string, errs *ValidationErrors) {
	for _, f := range fields {
		path := joinPath(prefix, f.Key)
		value, ok := doc[f.Key]
		if !ok || value == nil {
			if f.Required {
				*errs = append(*errs, ValidationError{Field: path, Message: "is required"})
			}
			continue
		}
		validateValue(f, value, path, errs)
	}
}

func validateValue(f Field, value any, path string, errs *ValidationErrors) {
	fail := func(format string, args ...any) {
		*errs = append(*errs, ValidationError{Field: path, Message: fmt.Sprintf(format, args...)})
	}

	switch f.Type {
	case TypeString:
		if _, ok := value.(string); !ok {
			fail("expected string, got %s", describe(value))
		}
	case TypeInt:
		if !isInt(value) {
			fail("expected integer, got %s", describe(value))
		}
	case TypeNumber:
		if !isNumber(value) {
			fail("expected number, got %s", describe(value))
		}
	case TypeStrings, TypeNumbers:
		items, ok := value.([]any)
		if !ok {
			fail("expected list, got %s", describe(value))
			return
		}
		if f.Length > 0 && len(items) != f.Length {
			fail("expected %d items, got %d", f.Length, len(items))
		}
		for i, item := range items {
			if f.Type == TypeNumbers && !isNumber(item) {
				fail("item %d: expected number, got %s", i, describe(item))
			}
			if f.Type == TypeStrings && !isScalar(item) {
				fail("item %d: expected scalar, got %s", i, describe(item))
			}
		}
	case TypeMap:
		m, ok := value.(map[string]any)
		if !ok {
			fail("expected mapping, got %s", describe(value))
			return
		}
		validateMapping(f.Fields, m, path, errs)
	}
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int64, uint64:
		return true
	}
	return false
}

func isNumber(v any) bool {
	if _, ok := v.(float64); ok {
		return true
	}
	return isInt(v)
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	return isNumber(v)
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, uint64:
		return "integer"
	case float64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "mapping"
	}
	return fmt.Sprintf("%T", v)
}
