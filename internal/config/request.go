package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/cryogrid-fetcher/internal/credentials"
)

// Request is a validated CryoGrid data request.
type Request struct {
	FnameYAML   string `yaml:"fname_yaml"`
	BBoxStr     string `yaml:"bbox_str"`
	BBoxWSEN    BBox   `yaml:"bbox_WSEN"`
	StartYear   int    `yaml:"start_year"`
	EndYear     int    `yaml:"end_year"`
	FpathBaseS3 string `yaml:"fpath_base_s3"`
	FnameDotenv string `yaml:"fname_dotenv,omitempty"`
	DEM         DEM    `yaml:"dem"`
	ERA5        ERA5   `yaml:"era5"`

	// Extra keeps keys the schema does not describe.
	Extra map[string]any `yaml:",inline"`

	Credentials credentials.Credentials `yaml:"-"`
}

// DEM holds the elevation model destination.
type DEM struct {
	FpathS3 string         `yaml:"fpath_s3"`
	Extra   map[string]any `yaml:",inline"`
}

// ERA5 describes the reanalysis download.
type ERA5 struct {
	DstDirS3       string         `yaml:"dst_dir_s3"`
	SingleLevels   SingleLevels   `yaml:"single_levels"`
	PressureLevels PressureLevels `yaml:"pressure_levels"`
	Extra          map[string]any `yaml:",inline"`
}

// SingleLevels is the ERA5 single-level request.
type SingleLevels struct {
	Variable StringSet      `yaml:"variable"`
	Extra    map[string]any `yaml:",inline"`
}

// PressureLevels is the ERA5 pressure-level request.
type PressureLevels struct {
	Variable      StringSet      `yaml:"variable"`
	PressureLevel StringSet      `yaml:"pressure_level"`
	Extra         map[string]any `yaml:",inline"`
}

// Years returns every year of the request window, inclusive.
func (r *Request) Years() []int {
	if r.EndYear < r.StartYear {
		return nil
	}
	years := make([]int, 0, r.EndYear-r.StartYear+1)
	for y := r.StartYear; y <= r.EndYear; y++ {
		years = append(years, y)
	}
	return years
}

// StringSet is a list of names compared as a set. Scalars of any kind are
// accepted so pressure levels may be written as numbers.
type StringSet []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list", node.Line)
	}
	out := make(StringSet, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: expected a scalar list item", item.Line)
		}
		out = append(out, item.Value)
	}
	*s = out
	return nil
}

// Missing returns the required items absent from s, in required order.
func (s StringSet) Missing(required []string) []string {
	have := make(map[string]struct{}, len(s))
	for _, v := range s {
		have[v] = struct{}{}
	}

	var missing []string
	for _, key := range required {
		if _, ok := have[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func decodeRequest(doc map[string]any) (*Request, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}
