package credentials

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DotenvFileName is the file searched for above the working directory.
const DotenvFileName = ".env"

// DotenvNotFoundError is returned when neither the upward search nor the
// fallback path yields a dotenv file.
type DotenvNotFoundError struct {
	SearchDir string
	Fallback  string
}

func (e *DotenvNotFoundError) Error() string {
	return fmt.Sprintf("no %s file found in upstream directories of %s or at the specified path: %s",
		DotenvFileName, e.SearchDir, e.Fallback)
}

func (e *DotenvNotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// LoadDotenv finds a .env file above searchDir (the working directory when
// empty), falling back to fallback, and loads its pairs into the process
// environment. Variables already set are not overridden. It returns the path
// that was loaded.
func LoadDotenv(searchDir, fallback string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if searchDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		searchDir = wd
	}
	if abs, err := filepath.Abs(searchDir); err == nil {
		searchDir = abs
	}

	path, found := findUpward(searchDir, DotenvFileName)
	if !found && fallback != "" && isRegularFile(fallback) {
		path, found = fallback, true
	}
	if !found {
		return "", &DotenvNotFoundError{SearchDir: searchDir, Fallback: fallback}
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("load %s: %w", path, err)
	}

	logger.Info("loaded .env variables",
		zap.String("path", path),
		zap.Strings("keys", slices.Sorted(maps.Keys(values))),
	)
	return path, nil
}

// findUpward looks for name in dir and each of its parents.
func findUpward(dir, name string) (string, bool) {
	for {
		candidate := filepath.Join(dir, name)
		if isRegularFile(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
