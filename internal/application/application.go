package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/cryogrid-fetcher/internal/config"
	"github.com/eugenenazirov/cryogrid-fetcher/internal/credentials"
)

// ErrTemplateExists is returned when a template would overwrite an existing file.
var ErrTemplateExists = errors.New("template target already exists")

// Options holds the command-line settings the application is built from.
type Options struct {
	AllowedBuckets  []string
	DotenvSearchDir string
}

// App encapsulates the request loader and logger.
type App struct {
	loader *config.Loader
	logger *zap.Logger
}

// New initializes the application from the provided options.
func New(opts Options, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	loaderOpts := []config.Option{config.WithLogger(logger)}
	if len(opts.AllowedBuckets) > 0 {
		loaderOpts = append(loaderOpts, config.WithAllowedBuckets(opts.AllowedBuckets...))
	}
	if opts.DotenvSearchDir != "" {
		loaderOpts = append(loaderOpts, config.WithDotenvSearchDir(opts.DotenvSearchDir))
	}

	return &App{
		loader: config.NewLoader(loaderOpts...),
		logger: logger,
	}, nil
}

// Check loads the request at path and writes the normalized request to out.
// Whether an S3 client could sign requests with the discovered credentials
// is logged; it does not fail the check.
func (a *App) Check(ctx context.Context, path string, out io.Writer) (*config.Request, error) {
	req, err := a.loader.Load(path)
	if err != nil {
		return nil, err
	}

	if _, err := req.Credentials.Provider().Retrieve(ctx); err != nil {
		a.logger.Warn("S3 client credentials unavailable", zap.Error(err))
	} else {
		a.logger.Info("S3 client credentials available",
			zap.String("source", credentials.ProviderSource),
			zap.String("endpoint_url", req.Credentials.EndpointURL),
		)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	return req, nil
}

// WriteTemplate writes a blank request to path. An existing file is only
// replaced when overwrite is set.
func (a *App) WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrTemplateExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("inspect %s: %w", path, err)
		}
	}
	return a.loader.MakeTemplate(path)
}
