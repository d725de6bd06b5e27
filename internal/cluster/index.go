package cluster

import "math"

// spatialIndex buckets points into a uniform grid with eps-sized cells so a
// neighborhood query only inspects the 3x3 cells around a point instead of
// the full set.
type spatialIndex struct {
	cellSize float64
	grid     map[int64][]int
}

func newSpatialIndex(points []Point, eps float64) *spatialIndex {
	si := &spatialIndex{
		cellSize: eps,
		grid:     make(map[int64][]int),
	}
	for i, p := range points {
		id := si.cellID(cellCoord(p.X, eps), cellCoord(p.Y, eps))
		si.grid[id] = append(si.grid[id], i)
	}
	return si
}

func cellCoord(v, cellSize float64) int64 {
	return int64(math.Floor(v / cellSize))
}

// cellID maps a signed cell coordinate pair to a single key using Szudzik's
// pairing function over the zigzag-encoded coordinates.
func (si *spatialIndex) cellID(cx, cy int64) int64 {
	var a, b int64
	if cx >= 0 {
		a = 2 * cx
	} else {
		a = -2*cx - 1
	}
	if cy >= 0 {
		b = 2 * cy
	} else {
		b = -2*cy - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// regionQuery returns the indices of all points within eps of points[idx],
// the point itself included. Squared distances avoid the sqrt.
func (si *spatialIndex) regionQuery(points []Point, idx int, eps float64) []int {
	p := points[idx]
	eps2 := eps * eps
	baseX := cellCoord(p.X, si.cellSize)
	baseY := cellCoord(p.Y, si.cellSize)

	var neighbors []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, cand := range si.grid[si.cellID(baseX+dx, baseY+dy)] {
				ddx := points[cand].X - p.X
				ddy := points[cand].Y - p.Y
				if ddx*ddx+ddy*ddy <= eps2 {
					neighbors = append(neighbors, cand)
				}
			}
		}
	}
	return neighbors
}
