package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// compassAxes is the positional meaning of a BBox.
const compassAxes = "WSEN"

// BBox is a bounding box given as west, south, east, north in decimal degrees.
type BBox [4]float64

func (b BBox) West() float64 { return b[0] }
func (b BBox) South() float64 { return b[1] }
func (b BBox) East() float64 { return b[2] }
func (b BBox) North() float64 { return b[3] }

// MakeBBoxString builds the label used in storage paths, e.g.
// [-10.5, 40.2, 5.0, 55.75] becomes "W-1050_S4020_E500_N5575".
//
// Each token is the positional axis letter followed by the coordinate in
// hundredths of a degree, rounded half to even. The sign is kept in the
// number; the hemisphere letter from Hemisphere is not used.
func MakeBBoxString(bbox BBox) (string, error) {
	tokens := make([]string, 0, len(bbox))
	for i, coord := range bbox {
		token, err := bboxToken(coord, compassAxes[i])
		if err != nil {
			return "", err
		}
		tokens = append(tokens, token)
	}
	return strings.Join(tokens, "_"), nil
}

func bboxToken(coord float64, axis byte) (string, error) {
	if _, err := Hemisphere(coord, axis); err != nil {
		return "", err
	}
	scaled := math.RoundToEven(coord * 100)
	if math.IsNaN(scaled) || scaled < math.MinInt64 || scaled >= math.MaxInt64 {
		return "", fmt.Errorf("%w: %v on axis %c", ErrInvalidCoordinate, coord, axis)
	}
	return string(axis) + strconv.FormatInt(int64(scaled), 10), nil
}

// Hemisphere returns the direction letter a coordinate falls in for the
// given axis: E or W for the W/E axes, N or S for the S/N axes. Zero counts
// as west or south.
func Hemisphere(coord float64, axis byte) (string, error) {
	switch axis {
	case 'W', 'w', 'E', 'e':
		if coord > 0 {
			return "E", nil
		}
		return "W", nil
	case 'N', 'n', 'S', 's':
		if coord > 0 {
			return "N", nil
		}
		return "S", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAxis, axis)
}

func bboxFromDocument(value any) (BBox, error) {
	items, ok := value.([]any)
	if !ok || len(items) != len(compassAxes) {
		return BBox{}, fmt.Errorf("bbox_WSEN must hold %d coordinates", len(compassAxes))
	}

	var bbox BBox
	for i, item := range items {
		switch v := item.(type) {
		case float64:
			bbox[i] = v
		case int:
			bbox[i] = float64(v)
		case int64:
			bbox[i] = float64(v)
		case uint64:
			bbox[i] = float64(v)
		default:
			return BBox{}, fmt.Errorf("bbox_WSEN[%d]: expected number, got %T", i, item)
		}
	}
	return bbox, nil
}
