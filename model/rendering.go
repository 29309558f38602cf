package model

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

const (
	// clearScreen erases the display and homes the cursor
	clearScreen = "\x1b[2J\x1b[1;1H"
)

// Renderer is a display sink for successive frames of a grid
type Renderer interface {
	Clear() error
	Display(generation int, g *Grid) error
	Close() error
}

// TerminalRenderer prints frames as text with ANSI screen clears in between
type TerminalRenderer struct {
	out  io.Writer
	dead string
	live string
}

// NewTerminalRenderer writes frames to out using the given glyphs
func NewTerminalRenderer(out io.Writer, dead, live string) *TerminalRenderer {
	return &TerminalRenderer{out: out, dead: dead, live: live}
}

// Display renders the grid under a generation header
func (r *TerminalRenderer) Display(generation int, g *Grid) error {
	_, err := fmt.Fprintf(r.out, "Generation %d:\n%s", generation, g.RenderWith(r.dead, r.live, RowSeparator))
	return errors.Wrap(err, "[TerminalRenderer.Display] failed to write frame")
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.out, clearScreen)
	return errors.Wrap(err, "[TerminalRenderer.Clear] failed to clear screen")
}

func (r *TerminalRenderer) Close() error { return nil }
