package physics

import (
	"math"
	"slices"
)

// SpatialGrid is a uniform grid for broad-phase collision detection over a
// bounded area. Boxes are inserted into every cell they cover, so a query
// only has to look at the cells its own box covers.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
	queryBuf    []int // Reused result buffer for QueryRect
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the given area.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([]gridCell, cols*rows)
	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) to every cell its box covers.
// Boxes partly outside the area land in the edge cells.
func (g *SpatialGrid) Insert(r Rect, index int) {
	c0, r0 := g.posToCell(r.X, r.Y)
	c1, r1 := g.posToCell(r.X+r.W, r.Y+r.H)
	for row := r0; row <= r1; row++ {
		rowOffset := row * g.cols
		for col := c0; col <= c1; col++ {
			g.cells[rowOffset+col].items = append(g.cells[rowOffset+col].items, index)
		}
	}
}

// QueryRect returns the indices of every item sharing a cell with r, in
// ascending order without duplicates. The slice is only valid until the
// next call.
func (g *SpatialGrid) QueryRect(r Rect) []int {
	out := g.queryBuf[:0]
	c0, r0 := g.posToCell(r.X, r.Y)
	c1, r1 := g.posToCell(r.X+r.W, r.Y+r.H)
	for row := r0; row <= r1; row++ {
		rowOffset := row * g.cols
		for col := c0; col <= c1; col++ {
			out = append(out, g.cells[rowOffset+col].items...)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	g.queryBuf = out
	return out
}

// posToCell converts coordinates to grid cell coordinates.
// Clamps to valid range to handle positions outside the area.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor(x * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor(y * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
