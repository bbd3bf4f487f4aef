package schema

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const templateHeader = `CryoGrid data request
Generated from the request schema. Replace the example values before use.
Placeholders such as {bbox_str} or {fpath_base_s3} are resolved on load.`

// WriteTemplate writes a template for the embedded schema to path.
func WriteTemplate(path string) error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.WriteTemplate(path)
}

// WriteTemplate renders the template and writes it to path, replacing any
// existing file.
func (s *Schema) WriteTemplate(path string) error {
	data, err := s.Template()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// Template renders a commented YAML document holding the example value of
// every required field. Optional fields are listed in the header.
func (s *Schema) Template() ([]byte, error) {
	var optional []string
	body := templateMapping(s.Fields, "", &optional)

	header := templateHeader
	if len(optional) > 0 {
		header += "\n\nOptional keys:\n" + strings.Join(optional, "\n")
	}

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: commentLines(header),
		Content:     []*yaml.Node{body},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	return buf.Bytes(), nil
}

func templateMapping(fields []Field, prefix string, optional *[]string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		path := joinPath(prefix, f.Key)

		var value *yaml.Node
		switch {
		case f.Type == TypeMap:
			value = templateMapping(f.Fields, path, optional)
			if !f.Required && len(value.Content) == 0 {
				continue
			}
		case !f.Required:
			*optional = append(*optional, fmt.Sprintf("  %s: %s  (%s)", path, exampleLiteral(f), f.Description))
			continue
		default:
			value = exampleNode(f)
		}

		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key}
		if f.Description != "" {
			key.HeadComment = commentLines(f.Description)
		}
		node.Content = append(node.Content, key, value)
	}
	return node
}

func exampleNode(f Field) *yaml.Node {
	if f.Example.Kind == 0 {
		return zeroNode(f.Type)
	}
	n := f.Example
	n.HeadComment, n.LineComment, n.FootComment = "", "", ""
	return &n
}

func zeroNode(t Type) *yaml.Node {
	switch t {
	case TypeInt, TypeNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: "0"}
	case TypeStrings, TypeNumbers:
		return &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: ""}
}

func exampleLiteral(f Field) string {
	if f.Example.Kind == 0 {
		return "<" + string(f.Type) + ">"
	}
	out, err := yaml.Marshal(&f.Example)
	if err != nil {
		return "<" + string(f.Type) + ">"
	}
	return strings.TrimSpace(string(out))
}

func commentLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = "#"
			continue
		}
		lines[i] = "# " + line
	}
	return strings.Join(lines, "\n")
}
