package mosaic

import (
	"fmt"
	"strings"
)

// Pattern is a fixed grid template: each row lists the orientation required
// by each of its slots.
type Pattern struct {
	Name string
	Rows [][]Orientation
}

// Slots flattens the rows in row-major, left-to-right order. This is the order
// in which slots are filled.
func (p Pattern) Slots() []Orientation {
	slots := make([]Orientation, 0, p.Size())
	for _, row := range p.Rows {
		slots = append(slots, row...)
	}
	return slots
}

// Size returns the number of images the pattern consumes when fully matched.
func (p Pattern) Size() int {
	n := 0
	for _, row := range p.Rows {
		n += len(row)
	}
	return n
}

// String renders the pattern in the notation accepted by ParsePattern.
func (p Pattern) String() string {
	rows := make([]string, len(p.Rows))
	for i, row := range p.Rows {
		slots := make([]string, len(row))
		for j, o := range row {
			slots[j] = o.String()
		}
		rows[i] = strings.Join(slots, ",")
	}
	return strings.Join(rows, "|")
}

// ParsePattern parses row notation such as "v|h,h,h,h": rows are separated by
// "|" and slots within a row by commas or whitespace. Empty rows are ignored.
func ParsePattern(notation string) (Pattern, error) {
	var rows [][]Orientation
	for _, rawRow := range strings.Split(notation, "|") {
		fields := strings.FieldsFunc(rawRow, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}

		row := make([]Orientation, 0, len(fields))
		for _, f := range fields {
			o, err := ParseOrientation(f)
			if err != nil {
				return Pattern{}, fmt.Errorf("pattern %q: %w", notation, err)
			}
			row = append(row, o)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return Pattern{}, fmt.Errorf("pattern %q has no slots", notation)
	}

	p := Pattern{Rows: rows}
	p.Name = p.String()
	return p, nil
}

// ParsePatterns parses a ";"-separated list of patterns.
func ParsePatterns(list string) ([]Pattern, error) {
	var patterns []Pattern
	for _, notation := range strings.Split(list, ";") {
		if strings.TrimSpace(notation) == "" {
			continue
		}
		p, err := ParsePattern(notation)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// MustParsePatterns is like ParsePatterns but panics on error. It is meant for
// package-level defaults.
func MustParsePatterns(list string) []Pattern {
	patterns, err := ParsePatterns(list)
	if err != nil {
		panic(err)
	}
	return patterns
}
