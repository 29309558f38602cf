package model

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-spaceships/rules"
)

const (
	DeadGlyph    = "⬜"
	LiveGlyph    = "⬛"
	RowSeparator = "\n"
)

// Grid is a fixed-size Game of Life board with hard, non-wrapping borders.
// Cells are addressed as (x, y) = (column, row).
type Grid struct {
	width  int
	height int
	cells  [][]bool

	pool    *MatrixPool
	workers int
}

// Option configures how a Grid advances between generations
type Option func(*Grid)

// WithPool makes Advance recycle retired matrices through pool
func WithPool(pool *MatrixPool) Option {
	return func(g *Grid) { g.pool = pool }
}

// WithWorkers splits Advance into n row bands computed concurrently.
// Values below 2 keep the computation on the calling goroutine.
func WithWorkers(n int) Option {
	return func(g *Grid) { g.workers = n }
}

// NewGrid creates an all-dead grid with the specified dimensions
func NewGrid(width, height int, opts ...Option) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("model: invalid grid dimensions %dx%d", width, height))
	}
	g := &Grid{
		width:   width,
		height:  height,
		workers: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cells = g.allocate()
	return g
}

// Width returns the number of columns
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows
func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) mustContain(x, y int) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("model: cell (%d,%d) outside %dx%d grid", x, y, g.width, g.height))
	}
}

// Get returns whether the cell is alive
func (g *Grid) Get(x, y int) bool {
	g.mustContain(x, y)
	return g.cells[y][x]
}

// Set sets a cell to alive (true) or dead (false)
func (g *Grid) Set(x, y int, alive bool) {
	g.mustContain(x, y)
	g.cells[y][x] = alive
}

// Toggle flips the cell between alive and dead
func (g *Grid) Toggle(x, y int) {
	g.mustContain(x, y)
	g.cells[y][x] = !g.cells[y][x]
}

// CountNeighbors counts living cells among the up to eight neighbors of (x, y).
// Positions beyond the border are skipped, so corners have 3 candidates and
// edges 5.
func (g *Grid) CountNeighbors(x, y int) int {
	g.mustContain(x, y)
	return g.countNeighbors(x, y)
}

func (g *Grid) countNeighbors(x, y int) (count int) {
	minX := max(0, x-1)
	maxX := min(g.width-1, x+1)
	minY := max(0, y-1)
	maxY := min(g.height-1, y+1)

	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue
			}
			if g.cells[ny][nx] {
				count++
			}
		}
	}
	return count
}

// NextState reports whether (x, y) is alive in the next generation
func (g *Grid) NextState(x, y int) bool {
	g.mustContain(x, y)
	return rules.ApplyConwayRules(g.countNeighbors(x, y), g.cells[y][x])
}

// Advance moves the grid forward one generation. Every cell is computed from
// the current matrix into a new one, which then replaces it.
func (g *Grid) Advance() {
	next := g.allocate()

	if g.workers < 2 || g.height < 2 {
		g.computeRows(next, 0, g.height)
	} else {
		var (
			eg          errgroup.Group
			bands       = min(g.workers, g.height)
			rowsPerBand = (g.height + bands - 1) / bands
		)
		for start := 0; start < g.height; start += rowsPerBand {
			end := min(start+rowsPerBand, g.height)
			eg.Go(func() error {
				g.computeRows(next, start, end)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			panic(errors.Wrap(err, "[Grid.Advance] row band failed"))
		}
	}

	prev := g.cells
	g.cells = next
	if g.pool != nil {
		g.pool.Put(prev)
	}
}

// computeRows fills rows [start, end) of next from the current matrix only
func (g *Grid) computeRows(next [][]bool, start, end int) {
	for y := start; y < end; y++ {
		for x := range g.width {
			next[y][x] = rules.ApplyConwayRules(g.countNeighbors(x, y), g.cells[y][x])
		}
	}
}

func (g *Grid) allocate() [][]bool {
	if g.pool != nil {
		return g.pool.Get(g.width, g.height)
	}
	return newMatrix(g.width, g.height)
}

// Population returns the number of living cells
func (g *Grid) Population() (count int) {
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				count++
			}
		}
	}
	return
}

// Render draws the grid top row first, left cell first, with the default glyphs
func (g *Grid) Render() string {
	return g.RenderWith(DeadGlyph, LiveGlyph, RowSeparator)
}

// RenderWith draws the grid using the given glyphs, ending every row with sep
func (g *Grid) RenderWith(dead, live, sep string) string {
	var b strings.Builder
	b.Grow(g.height * (g.width*max(len(dead), len(live)) + len(sep)))
	for y := range g.height {
		for x := range g.width {
			if g.cells[y][x] {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
		b.WriteString(sep)
	}
	return b.String()
}
