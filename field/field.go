// Package field provides the immutable population-density grid the
// simulation runs over.
package field

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidField reports a density field unusable for simulation:
// zero total weight, non-finite weights, or a non-positive extent.
var ErrInvalidField = errors.New("invalid density field")

// Field is an immutable 2-D grid of non-negative population weights
// with an associated spatial extent. Cell (0,0) is the top-left cell;
// rows grow in +y, columns in +x.
type Field struct {
	rows, cols int
	originX    float64
	originY    float64
	cellSize   float64
	weights    []float64 // row-major
	total      float64
}

// New builds a Field from row-major weights. The slice is copied;
// callers keep ownership of theirs.
func New(weights []float64, rows, cols int, originX, originY, cellSize float64) (*Field, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidField, rows, cols)
	}
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidField, cellSize)
	}
	if len(weights) != rows*cols {
		return nil, fmt.Errorf("%w: got %d weights for %dx%d grid", ErrInvalidField, len(weights), rows, cols)
	}

	total := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: non-finite weight at cell %d", ErrInvalidField, i)
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v at cell %d", ErrInvalidField, w, i)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrInvalidField)
	}

	f := &Field{
		rows:     rows,
		cols:     cols,
		originX:  originX,
		originY:  originY,
		cellSize: cellSize,
		weights:  make([]float64, len(weights)),
		total:    total,
	}
	copy(f.weights, weights)
	return f, nil
}

// Rows returns the number of grid rows.
func (f *Field) Rows() int { return f.rows }

// Cols returns the number of grid columns.
func (f *Field) Cols() int { return f.cols }

// CellSize returns the side length of one cell in world units.
func (f *Field) CellSize() float64 { return f.cellSize }

// OriginX returns the world x coordinate of the extent's min corner.
func (f *Field) OriginX() float64 { return f.originX }

// OriginY returns the world y coordinate of the extent's min corner.
func (f *Field) OriginY() float64 { return f.originY }

// Width returns the extent width in world units.
func (f *Field) Width() float64 { return float64(f.cols) * f.cellSize }

// Height returns the extent height in world units.
func (f *Field) Height() float64 { return float64(f.rows) * f.cellSize }

// MaxX returns the world x coordinate of the extent's max corner.
func (f *Field) MaxX() float64 { return f.originX + f.Width() }

// MaxY returns the world y coordinate of the extent's max corner.
func (f *Field) MaxY() float64 { return f.originY + f.Height() }

// TotalWeight returns the sum of all cell weights.
func (f *Field) TotalWeight() float64 { return f.total }

// At returns the weight of cell (row, col).
func (f *Field) At(row, col int) float64 {
	return f.weights[row*f.cols+col]
}

// Contains reports whether the world position lies within the extent.
func (f *Field) Contains(x, y float64) bool {
	return x >= f.originX && x <= f.MaxX() && y >= f.originY && y <= f.MaxY()
}

// CellAt returns the grid cell covering the world position, clamped to
// the grid so positions on the max edge map to the last cell.
func (f *Field) CellAt(x, y float64) (row, col int) {
	col = int((x - f.originX) / f.cellSize)
	row = int((y - f.originY) / f.cellSize)
	if col < 0 {
		col = 0
	} else if col >= f.cols {
		col = f.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= f.rows {
		row = f.rows - 1
	}
	return row, col
}

// CellOrigin returns the world coordinate of the min corner of cell
// (row, col).
func (f *Field) CellOrigin(row, col int) (x, y float64) {
	return f.originX + float64(col)*f.cellSize, f.originY + float64(row)*f.cellSize
}

// DensityAt returns the weight of the cell covering the world position,
// or 0 for positions outside the extent.
func (f *Field) DensityAt(x, y float64) float64 {
	if !f.Contains(x, y) {
		return 0
	}
	row, col := f.CellAt(x, y)
	return f.At(row, col)
}

// PopulatedCells returns the number of cells with weight > 0.
func (f *Field) PopulatedCells() int {
	n := 0
	for _, w := range f.weights {
		if w > 0 {
			n++
		}
	}
	return n
}
