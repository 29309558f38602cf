package patterns

import "github.com/pkg/errors"

var ErrOutOfBounds = errors.New("pattern does not fit on grid")

// Toggler is the cell-addressing contract the stamper needs from a grid
type Toggler interface {
	Width() int
	Height() int
	Toggle(x, y int)
}

// Stamp toggles every cell of p at anchor + offset. Stamping the same pattern
// twice at the same anchor restores the grid. If any cell would land outside
// the grid nothing is toggled and an error wrapping ErrOutOfBounds is returned.
func Stamp(grid Toggler, p Pattern, anchor Coord) error {
	if anchor.X < 0 || anchor.Y < 0 {
		return errors.Wrapf(ErrOutOfBounds, "[Stamp] %q anchor %+v is negative", p.Name, anchor)
	}
	// anchor+offset may overflow, so compare offsets to the room past the anchor
	roomX, roomY := grid.Width()-anchor.X, grid.Height()-anchor.Y
	for _, c := range p.Coords {
		if c.X < 0 || c.Y < 0 || c.X >= roomX || c.Y >= roomY {
			return errors.Wrapf(ErrOutOfBounds, "[Stamp] %q offset %+v from anchor %+v outside %dx%d grid",
				p.Name, c, anchor, grid.Width(), grid.Height())
		}
	}

	for _, c := range p.Coords {
		grid.Toggle(anchor.X+c.X, anchor.Y+c.Y)
	}
	return nil
}

// Place stamps p at its own anchor, or at the origin when it has none
func Place(grid Toggler, p Pattern) error {
	return Stamp(grid, p, p.Origin())
}
