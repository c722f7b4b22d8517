package sim

import (
	"github.com/geosims/outbreak/field"
)

// bucketGrid indexes agent positions for radius queries. The extent is
// partitioned into uniform buckets at least as large as the query
// radius, so a radius query only inspects the query point's bucket and
// its 8 neighbors instead of scanning all agents.
//
// Buckets hold agent indices, not agent copies; the grid is rebuilt
// from current positions once per step after movement. Every agent
// lands in exactly one bucket (positions are clamped to the extent
// before bucketing, and the mobility model keeps them inside anyway).
type bucketGrid struct {
	bucketSize float64
	cols, rows int
	minX, minY float64
	buckets    [][]int32
}

// newBucketGrid sizes the grid for queries up to radius over the
// field's extent.
func newBucketGrid(f *field.Field, radius float64) *bucketGrid {
	size := radius
	if size <= 0 {
		size = f.CellSize()
	}
	cols := int(f.Width()/size) + 1
	rows := int(f.Height()/size) + 1

	buckets := make([][]int32, cols*rows)
	for i := range buckets {
		buckets[i] = make([]int32, 0, 8)
	}
	return &bucketGrid{
		bucketSize: size,
		cols:       cols,
		rows:       rows,
		minX:       f.OriginX(),
		minY:       f.OriginY(),
		buckets:    buckets,
	}
}

// rebuild reindexes every agent from its current position. Bucket
// contents end up ordered by agent index, which keeps downstream
// iteration deterministic.
func (g *bucketGrid) rebuild(xs, ys []float64) {
	for i := range g.buckets {
		g.buckets[i] = g.buckets[i][:0]
	}
	for i := range xs {
		idx := g.bucketIndex(xs[i], ys[i])
		g.buckets[idx] = append(g.buckets[idx], int32(i))
	}
}

// neighborsInto appends to dst every agent within radius of agent i,
// excluding i itself, and returns the updated slice. Reuse dst across
// calls to avoid allocations.
func (g *bucketGrid) neighborsInto(dst []int32, xs, ys []float64, i int32, radius float64) []int32 {
	x, y := xs[i], ys[i]
	centerCol := g.clampCol(int((x - g.minX) / g.bucketSize))
	centerRow := g.clampRow(int((y - g.minY) / g.bucketSize))
	radiusSq := radius * radius

	for dr := -1; dr <= 1; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			for _, j := range g.buckets[row*g.cols+col] {
				if j == i {
					continue
				}
				dx := xs[j] - x
				dy := ys[j] - y
				if dx*dx+dy*dy <= radiusSq {
					dst = append(dst, j)
				}
			}
		}
	}
	return dst
}

func (g *bucketGrid) bucketIndex(x, y float64) int {
	col := g.clampCol(int((x - g.minX) / g.bucketSize))
	row := g.clampRow(int((y - g.minY) / g.bucketSize))
	return row*g.cols + col
}

func (g *bucketGrid) clampCol(col int) int {
	if col < 0 {
		return 0
	}
	if col >= g.cols {
		return g.cols - 1
	}
	return col
}

func (g *bucketGrid) clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= g.rows {
		return g.rows - 1
	}
	return row
}
