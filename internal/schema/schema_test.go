package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const validRequest = `
fpath_base_s3: s3://cryogrid-data/runs/{bbox_str}/
bbox_WSEN: [-10.5, 40.2, 5.0, 55.75]
start_year: 2000
end_year: 2010
dem:
  fpath_s3: s3://cryogrid-data/dem/cop30.tif
era5:
  dst_dir_s3: s3://cryogrid-data/era5/
  single_levels:
    variable: [2m_temperature]
  pressure_levels:
    variable: [temperature]
    pressure_level: [700, 750]
notes: extra keys are allowed
`

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "request.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestDefaultSchemaParses(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	if len(s.Fields) == 0 {
		t.Fatalf("expected fields in default schema")
	}
	again, _ := Default()
	if again != s {
		t.Fatalf("expected default schema to be cached")
	}
}

func TestParseRejectsBrokenSchemas(t *testing.T) {
	cases := map[string]string{
		"Empty":           ``,
		"UnknownType":     "fields:\n  - key: a\n    type: blob\n",
		"MissingKey":      "fields:\n  - type: string\n",
		"DuplicateKey":    "fields:\n  - key: a\n    type: string\n  - key: a\n    type: int\n",
		"ScalarWithChild": "fields:\n  - key: a\n    type: string\n    fields:\n      - key: b\n        type: int\n",
		"NestedUnknown":   "fields:\n  - key: a\n    type: map\n    fields:\n      - key: b\n        type: nope\n",
	}

	for name, doc := range cases {
		doc := doc
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error for schema %q", doc)
			}
		})
	}
}

func TestValidateFileAcceptsValidRequest(t *testing.T) {
	if err := ValidateFile(writeFile(t, validRequest)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFileReportsEveryViolation(t *testing.T) {
	doc := `
fpath_base_s3: 42
bbox_WSEN: [1, 2, three]
start_year: "2000"
dem: not-a-map
era5:
  dst_dir_s3: s3://cryogrid-data/era5/
  single_levels:
    variable: [[nested]]
  pressure_levels:
    variable: temperature
`
	err := ValidateFile(writeFile(t, doc))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	want := []string{
		"fpath_base_s3",
		"bbox_WSEN",
		"bbox_WSEN",
		"start_year",
		"end_year",
		"dem",
		"era5.single_levels.variable",
		"era5.pressure_levels.variable",
		"era5.pressure_levels.pressure_level",
	}
	got := fieldsOf(t, err)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected violations %v, got %v", want, got)
	}
}

func TestValidateFileMissingTopLevelField(t *testing.T) {
	doc := strings.Replace(validRequest, "start_year: 2000\n", "", 1)

	err := ValidateFile(writeFile(t, doc))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if got := fieldsOf(t, err); len(got) != 1 || got[0] != "start_year" {
		t.Fatalf("expected only start_year to be reported, got %v", got)
	}
	if !strings.Contains(err.Error(), "start_year: is required") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidateFileNullCountsAsMissing(t *testing.T) {
	doc := strings.Replace(validRequest, "end_year: 2010", "end_year: ~", 1)

	if got := fieldsOf(t, ValidateFile(writeFile(t, doc))); len(got) != 1 || got[0] != "end_year" {
		t.Fatalf("expected end_year violation, got %v", got)
	}
}

func TestValidateFileMalformedInput(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		err := ValidateFile(writeFile(t, "bbox_WSEN: [1, 2\n"))
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("top level list", func(t *testing.T) {
		err := ValidateFile(writeFile(t, "- a\n- b\n"))
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		err := ValidateFile(writeFile(t, ""))
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		err := ValidateFile(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not-exist error, got %v", err)
		}
	})
}

func TestTemplateValidatesAgainstSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	if err := WriteTemplate(path); err != nil {
		t.Fatalf("WriteTemplate returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"# CryoGrid data request",
		"# Bounding box as [west, south, east, north]",
		"fname_dotenv",
		"bbox_WSEN: [-10.5, 40.2, 5.0, 55.75]",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected template to contain %q:\n%s", want, text)
		}
	}

	if err := ValidateFile(path); err != nil {
		t.Fatalf("template does not validate: %v\n%s", err, text)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse template: %v", err)
	}
	if _, ok := doc["fname_dotenv"]; ok {
		t.Fatalf("expected optional key to stay out of the template body")
	}
}

func TestTemplateUsesZeroValuesWithoutExamples(t *testing.T) {
	s, err := Parse([]byte(`
fields:
  - key: name
    type: string
    required: true
  - key: count
    type: int
    required: true
  - key: sizes
    type: numbers
    required: true
`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	data, err := s.Template()
	if err != nil {
		t.Fatalf("Template returned error: %v", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse template: %v", err)
	}
	if doc["name"] != "" || doc["count"] != 0 {
		t.Fatalf("unexpected zero values: %v", doc)
	}
	if sizes, ok := doc["sizes"].([]any); !ok || len(sizes) != 0 {
		t.Fatalf("expected empty list for sizes, got %#v", doc["sizes"])
	}
}
