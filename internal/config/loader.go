package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/cryogrid-fetcher/internal/credentials"
	"github.com/eugenenazirov/cryogrid-fetcher/internal/schema"
	"github.com/eugenenazirov/cryogrid-fetcher/internal/storage"
)

// Loader reads CryoGrid requests.
type Loader struct {
	logger    *zap.Logger
	schema    *schema.Schema
	checker   *storage.Checker
	dotenvDir string
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for progress and credential messages.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSchema replaces the embedded request schema.
func WithSchema(s *schema.Schema) Option {
	return func(l *Loader) {
		l.schema = s
	}
}

// WithAllowedBuckets restricts S3 paths to the given buckets.
func WithAllowedBuckets(buckets ...string) Option {
	return func(l *Loader) {
		l.checker = storage.NewChecker(buckets...)
	}
}

// WithDotenvSearchDir sets where the upward .env search starts. The working
// directory is used by default.
func WithDotenvSearchDir(dir string) Option {
	return func(l *Loader) {
		l.dotenvDir = dir
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		logger:  zap.NewNop(),
		checker: storage.NewChecker(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the request at path with a Loader built from opts.
func Load(path string, opts ...Option) (*Request, error) {
	return NewLoader(opts...).Load(path)
}

// Load validates, parses and checks the request at path. Any failure aborts
// the load; a partially checked Request is never returned.
func (l *Loader) Load(path string) (*Request, error) {
	sch := l.schema
	if sch == nil {
		var err error
		if sch, err = schema.Default(); err != nil {
			return nil, err
		}
	}
	if err := sch.ValidateFile(path); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}

	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	doc["fname_yaml"] = absPath

	bbox, err := bboxFromDocument(doc["bbox_WSEN"])
	if err != nil {
		return nil, err
	}
	if doc["bbox_str"], err = MakeBBoxString(bbox); err != nil {
		return nil, err
	}

	resolved, err := resolveFormatStrings(doc, map[string]string{"fname_yaml": absPath})
	if err != nil {
		return nil, fmt.Errorf("resolve format strings: %w", err)
	}

	req, err := decodeRequest(resolved)
	if err != nil {
		return nil, err
	}

	if err := CheckERA5Variables(&req.ERA5, l.logger); err != nil {
		return nil, err
	}
	if err := l.checkS3Paths(req); err != nil {
		return nil, err
	}

	l.logger.Info("loaded request", zap.String("path", path))
	l.logger.Debug("request bbox",
		zap.Float64s("bbox_WSEN", req.BBoxWSEN[:]),
		zap.String("bbox_str", req.BBoxStr),
	)
	l.logger.Debug("request dates",
		zap.Int("start_year", req.StartYear),
		zap.Int("end_year", req.EndYear),
		zap.Int("years", len(req.Years())),
	)

	creds, err := credentials.Discover(req.FnameDotenv, l.dotenvDir, l.logger)
	if err != nil {
		return nil, err
	}
	req.Credentials = creds

	return req, nil
}

// MakeTemplate writes a blank request derived from the schema to path.
func (l *Loader) MakeTemplate(path string) error {
	sch := l.schema
	if sch == nil {
		var err error
		if sch, err = schema.Default(); err != nil {
			return err
		}
	}
	if err := sch.WriteTemplate(path); err != nil {
		return err
	}
	l.logger.Info("config template written", zap.String("path", path))
	return nil
}

func (l *Loader) checkS3Paths(req *Request) error {
	paths := []struct {
		field string
		value string
	}{
		{"fpath_base_s3", req.FpathBaseS3},
		{"dem.fpath_s3", req.DEM.FpathS3},
		{"era5.dst_dir_s3", req.ERA5.DstDirS3},
	}
	for _, p := range paths {
		loc, err := l.checker.Check(p.value)
		if err != nil {
			return fmt.Errorf("%s: %w", p.field, err)
		}
		l.logger.Debug("S3 path checked", zap.String("field", p.field), zap.Stringer("location", loc))
	}
	return nil
}

func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}

	doc := make(map[string]any)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return doc, nil
}
