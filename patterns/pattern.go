package patterns

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

var ErrInvalidPattern = errors.New("invalid pattern")

// Coord is a (column, row) pair. In a pattern it is an offset from the anchor.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pattern is a named template of live cells, optionally anchored to a
// starting position on the grid
type Pattern struct {
	Name   string  `json:"name"`
	Coords []Coord `json:"coords"`
	Anchor *Coord  `json:"starting_coord,omitempty"`
}

// Validate checks that the pattern is named, has cells and uses only
// non-negative coordinates
func (p Pattern) Validate() error {
	if p.Name == "" {
		return errors.Wrap(ErrInvalidPattern, "[Pattern.Validate] missing name")
	}
	if len(p.Coords) == 0 {
		return errors.Wrapf(ErrInvalidPattern, "[Pattern.Validate] %q has no coords", p.Name)
	}
	for i, c := range p.Coords {
		if c.X < 0 || c.Y < 0 {
			return errors.Wrapf(ErrInvalidPattern, "[Pattern.Validate] %q coord %d is negative: %+v", p.Name, i, c)
		}
	}
	if p.Anchor != nil && (p.Anchor.X < 0 || p.Anchor.Y < 0) {
		return errors.Wrapf(ErrInvalidPattern, "[Pattern.Validate] %q anchor is negative: %+v", p.Name, *p.Anchor)
	}
	return nil
}

// Origin returns the pattern's own anchor, or (0, 0) when it has none
func (p Pattern) Origin() Coord {
	if p.Anchor == nil {
		return Coord{}
	}
	return *p.Anchor
}

// Decode reads a single JSON pattern from r
func Decode(r io.Reader) (Pattern, error) {
	var p Pattern
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pattern{}, errors.Wrap(err, "[Decode] failed to unmarshal pattern")
	}
	if err := p.Validate(); err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// LoadFile reads a JSON pattern from filename
func LoadFile(filename string) (Pattern, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Pattern{}, errors.Wrapf(err, "[LoadFile] failed to read file: %+v", filename)
	}
	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Pattern{}, errors.Wrapf(err, "[LoadFile] failed to load pattern from file: %+v", filename)
	}
	return p, nil
}
