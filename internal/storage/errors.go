package storage

import (
	"errors"
	"fmt"
)

// ErrUnsafePath is returned when an S3 path could escape its bucket/prefix
// or is not a well-formed s3:// URI.
var ErrUnsafePath = errors.New("unsafe S3 path")

// UnsafePathError describes why a path was rejected.
type UnsafePathError struct {
	Path   string
	Reason string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrUnsafePath, e.Path, e.Reason)
}

func (e *UnsafePathError) Unwrap() error {
	return ErrUnsafePath
}

func reject(path, reason string) error {
	return &UnsafePathError{Path: path, Reason: reason}
}
