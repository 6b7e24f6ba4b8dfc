package mosaic

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Orientation is the aspect classification of an image.
type Orientation int

const (
	// Horizontal images are at least as wide as they are tall.
	Horizontal Orientation = iota + 1

	// Vertical images are taller than they are wide.
	Vertical
)

// String returns the single-letter code used in pattern notation.
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "h"
	case Vertical:
		return "v"
	default:
		return ""
	}
}

// IsValid returns true if the orientation is a recognized value.
func (o Orientation) IsValid() bool {
	return o == Horizontal || o == Vertical
}

// MarshalText encodes the orientation as its single-letter code. The zero
// (unclassified) orientation encodes as an empty string.
func (o Orientation) MarshalText() ([]byte, error) {
	if o == 0 {
		return []byte{}, nil
	}
	if !o.IsValid() {
		return nil, fmt.Errorf("invalid orientation %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes any spelling accepted by ParseOrientation. An empty
// value decodes to the zero (unclassified) orientation.
func (o *Orientation) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*o = 0
		return nil
	}
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// orientationNames maps the spellings editors use in the CMS to orientations.
var orientationNames = map[string]Orientation{
	"h":          Horizontal,
	"horizontal": Horizontal,
	"landscape":  Horizontal,
	"wide":       Horizontal,
	"v":          Vertical,
	"vertical":   Vertical,
	"portrait":   Vertical,
	"tall":       Vertical,
}

// ParseOrientation normalizes an external orientation tag.
func ParseOrientation(s string) (Orientation, error) {
	key := cases.Fold().String(strings.TrimSpace(s))
	if o, ok := orientationNames[key]; ok {
		return o, nil
	}
	return 0, fmt.Errorf("unknown orientation %q", s)
}

// Classify returns the orientation of an image with the given pixel
// dimensions. Square images count as horizontal.
func Classify(width, height int) Orientation {
	if height > width {
		return Vertical
	}
	return Horizontal
}
