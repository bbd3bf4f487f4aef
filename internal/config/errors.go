package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingRequired is returned when a required ERA5 variable or pressure level is absent.
	ErrMissingRequired = errors.New("missing required keys")
	// ErrInvalidAxis is returned when a bounding-box coordinate is paired with an unknown compass axis.
	ErrInvalidAxis = errors.New("invalid compass direction")
	// ErrInvalidCoordinate is returned when a bounding-box coordinate is not finite or too large to label.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrFormatCycle is returned when placeholders reference each other in a loop.
	ErrFormatCycle = errors.New("format string references itself")
)

// MissingKeysError lists every required item absent from a request field.
type MissingKeysError struct {
	Field   string
	Missing []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("%s in `%s`: [%s]", ErrMissingRequired, e.Field, strings.Join(e.Missing, ", "))
}

func (e *MissingKeysError) Unwrap() error {
	return ErrMissingRequired
}
