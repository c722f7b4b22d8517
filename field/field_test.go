package field

import (
	"errors"
	"math"
	"testing"
)

func TestNewRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name     string
		weights  []float64
		rows     int
		cols     int
		cellSize float64
	}{
		{"zero rows", []float64{}, 0, 3, 1.0},
		{"zero cols", []float64{}, 3, 0, 1.0},
		{"zero cell size", []float64{1, 1, 1, 1}, 2, 2, 0},
		{"negative cell size", []float64{1, 1, 1, 1}, 2, 2, -1.0},
		{"length mismatch", []float64{1, 1, 1}, 2, 2, 1.0},
		{"zero total weight", []float64{0, 0, 0, 0}, 2, 2, 1.0},
		{"negative weight", []float64{1, -0.5, 1, 1}, 2, 2, 1.0},
		{"nan weight", []float64{1, math.NaN(), 1, 1}, 2, 2, 1.0},
		{"inf weight", []float64{1, math.Inf(1), 1, 1}, 2, 2, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.weights, tt.rows, tt.cols, 0, 0, tt.cellSize)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !errors.Is(err, ErrInvalidField) {
				t.Errorf("error %v is not ErrInvalidField", err)
			}
		})
	}
}

func TestFieldExtent(t *testing.T) {
	f, err := New([]float64{1, 2, 3, 4, 5, 6}, 2, 3, 10, 20, 0.5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if f.Width() != 1.5 || f.Height() != 1.0 {
		t.Errorf("extent = %vx%v, want 1.5x1.0", f.Width(), f.Height())
	}
	if f.MaxX() != 11.5 || f.MaxY() != 21.0 {
		t.Errorf("max corner = (%v, %v), want (11.5, 21)", f.MaxX(), f.MaxY())
	}
	if f.TotalWeight() != 21 {
		t.Errorf("total weight = %v, want 21", f.TotalWeight())
	}
	if !f.Contains(10, 20) || !f.Contains(11.5, 21) {
		t.Error("extent corners should be contained")
	}
	if f.Contains(9.99, 20.5) || f.Contains(10.5, 21.01) {
		t.Error("positions outside the extent should not be contained")
	}
}

func TestCellLookup(t *testing.T) {
	// 2x3 grid, cell size 1, origin (0,0):
	//   row 0: 1 2 3
	//   row 1: 4 5 6
	f, err := New([]float64{1, 2, 3, 4, 5, 6}, 2, 3, 0, 0, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name     string
		x, y     float64
		wantRow  int
		wantCol  int
		wantDens float64
	}{
		{"first cell", 0.5, 0.5, 0, 0, 1},
		{"middle top", 1.5, 0.5, 0, 1, 2},
		{"bottom right interior", 2.5, 1.5, 1, 2, 6},
		{"max edge clamps to last cell", 3.0, 2.0, 1, 2, 6},
		{"min corner", 0, 0, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := f.CellAt(tt.x, tt.y)
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("CellAt(%v, %v) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, row, col, tt.wantRow, tt.wantCol)
			}
			if d := f.DensityAt(tt.x, tt.y); d != tt.wantDens {
				t.Errorf("DensityAt(%v, %v) = %v, want %v", tt.x, tt.y, d, tt.wantDens)
			}
		})
	}

	if d := f.DensityAt(-1, 0.5); d != 0 {
		t.Errorf("DensityAt outside extent = %v, want 0", d)
	}
}

func TestCellOrigin(t *testing.T) {
	f, err := New([]float64{1, 1, 1, 1}, 2, 2, 5, 7, 2.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	x, y := f.CellOrigin(1, 1)
	if x != 7 || y != 9 {
		t.Errorf("CellOrigin(1,1) = (%v, %v), want (7, 9)", x, y)
	}
}

func TestPopulatedCells(t *testing.T) {
	f, err := New([]float64{0, 3, 0, 1}, 2, 2, 0, 0, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if n := f.PopulatedCells(); n != 2 {
		t.Errorf("PopulatedCells = %d, want 2", n)
	}
}

func TestNewCopiesWeights(t *testing.T) {
	weights := []float64{1, 2, 3, 4}
	f, err := New(weights, 2, 2, 0, 0, 1.0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	weights[0] = 99
	if f.At(0, 0) != 1 {
		t.Error("Field should not alias the caller's weight slice")
	}
}
