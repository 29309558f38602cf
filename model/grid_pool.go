package model

import "sync"

// MatrixPool recycles cell matrices between generations so Advance can
// swap buffers instead of allocating a new matrix every step.
type MatrixPool struct {
	pool sync.Pool
}

func NewMatrixPool() *MatrixPool {
	return &MatrixPool{
		pool: sync.Pool{
			New: func() interface{} {
				return [][]bool(nil)
			},
		},
	}
}

// Get retrieves a cleared matrix with the requested dimensions
func (p *MatrixPool) Get(width, height int) [][]bool {
	cells := p.pool.Get().([][]bool)
	return resetMatrix(cells, width, height)
}

// Put returns a matrix to the pool
func (p *MatrixPool) Put(cells [][]bool) {
	if cells == nil {
		return
	}
	p.pool.Put(cells)
}

// resetMatrix reshapes cells to width x height, reusing rows when they fit,
// and clears every cell
func resetMatrix(cells [][]bool, width, height int) [][]bool {
	if len(cells) != height {
		cells = make([][]bool, height)
	}
	for i := range cells {
		if len(cells[i]) != width {
			cells[i] = make([]bool, width)
		} else {
			clear(cells[i])
		}
	}
	return cells
}

func newMatrix(width, height int) [][]bool {
	return resetMatrix(nil, width, height)
}
