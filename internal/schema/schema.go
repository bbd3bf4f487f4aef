package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Type names the shape a field value must have.
type Type string

const (
	TypeString  Type = "string"
	TypeInt     Type = "int"
	TypeNumber  Type = "number"
	TypeStrings Type = "strings"
	TypeNumbers Type = "numbers"
	TypeMap     Type = "map"
)

//go:embed schema.yaml
var defaultSchema []byte

var loadDefault = sync.OnceValues(func() (*Schema, error) {
	return Parse(defaultSchema)
})

// Schema describes the shape of a request document.
type Schema struct {
	Fields []Field `yaml:"fields"`
}

// Field describes a single key of a mapping.
type Field struct {
	Key         string    `yaml:"key"`
	Type        Type      `yaml:"type"`
	Required    bool      `yaml:"required"`
	Length      int       `yaml:"length"` // exact list length, 0 means any
	Description string    `yaml:"description"`
	Example     yaml.Node `yaml:"example"` // value written to templates
	Fields      []Field   `yaml:"fields"`  // children of map fields
}

// Default returns the embedded request schema.
func Default() (*Schema, error) {
	return loadDefault()
}

// Parse decodes and sanity-checks a schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if len(s.Fields) == 0 {
		return nil, errors.New("parse schema: no fields defined")
	}
	if err := checkFields(s.Fields, ""); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return &s, nil
}

func checkFields(fields []Field, prefix string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		path := joinPath(prefix, f.Key)
		if f.Key == "" {
			return fmt.Errorf("field under %q has no key", prefix)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("duplicate field %q", path)
		}
		seen[f.Key] = struct{}{}

		switch f.Type {
		case TypeString, TypeInt, TypeNumber, TypeStrings, TypeNumbers:
			if len(f.Fields) > 0 {
				return fmt.Errorf("field %q of type %s cannot have children", path, f.Type)
			}
		case TypeMap:
			if err := checkFields(f.Fields, path); err != nil {
				return err
			}
		default:
			return fmt.Errorf("field %q has unknown type %q", path, f.Type)
		}
	}
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
