package model

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
)

// ScreenRenderer draws frames on a full-screen tcell display with a status
// header on the first row. Every cell is as wide as the wider glyph.
type ScreenRenderer struct {
	screen    tcell.Screen
	style     tcell.Style
	dead      []rune
	live      []rune
	cellWidth int
}

// NewScreenRenderer initialises screen and takes ownership of it until Close
func NewScreenRenderer(screen tcell.Screen, dead, live string) (*ScreenRenderer, error) {
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "[NewScreenRenderer] failed to initialise screen")
	}
	screen.HideCursor()
	return &ScreenRenderer{
		screen:    screen,
		style:     tcell.StyleDefault,
		dead:      []rune(dead),
		live:      []rune(live),
		cellWidth: max(runewidth.StringWidth(dead), runewidth.StringWidth(live), 1),
	}, nil
}

func (r *ScreenRenderer) Clear() error {
	r.screen.Clear()
	return nil
}

// Display draws the grid and flushes it to the terminal
func (r *ScreenRenderer) Display(generation int, g *Grid) error {
	header := []rune(fmt.Sprintf("Generation %d | Population %d | Esc/q to quit", generation, g.Population()))
	for i, c := range header {
		r.screen.SetContent(i, 0, c, nil, r.style)
	}

	for y := range g.height {
		for x := range g.width {
			glyph := r.dead
			if g.cells[y][x] {
				glyph = r.live
			}
			r.drawCell(x*r.cellWidth, y+1, glyph)
		}
	}
	r.screen.Show()
	return nil
}

// drawCell writes glyph at column col and pads it with spaces to cellWidth
func (r *ScreenRenderer) drawCell(col, row int, glyph []rune) {
	end := col + r.cellWidth
	for _, c := range glyph {
		r.screen.SetContent(col, row, c, nil, r.style)
		col += max(runewidth.RuneWidth(c), 1)
	}
	for ; col < end; col++ {
		r.screen.SetContent(col, row, ' ', nil, r.style)
	}
}

// WatchKeys blocks until Esc, q or Ctrl-C is pressed, calling cancel, or
// until the screen is closed.
func (r *ScreenRenderer) WatchKeys(cancel func()) {
	for {
		switch ev := r.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				cancel()
				return
			}
		case *tcell.EventResize:
			r.screen.Sync()
		}
	}
}

// Close restores the terminal
func (r *ScreenRenderer) Close() error {
	r.screen.Fini()
	return nil
}
