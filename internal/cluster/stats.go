package cluster

import "gonum.org/v1/gonum/stat"

// Stat summarizes one cluster: its size, centroid, and planar bounding box.
type Stat struct {
	ID   int
	Size int

	CentroidX float64
	CentroidY float64

	MinX, MinY float64
	MaxX, MaxY float64
}

// buildStats computes per-cluster aggregates, ordered by cluster ID.
func buildStats(points []Point, labels []int, maxClusterID int) []Stat {
	if maxClusterID == 0 {
		return nil
	}

	xs := make([][]float64, maxClusterID+1)
	ys := make([][]float64, maxClusterID+1)
	for i, label := range labels {
		if label == Noise {
			continue
		}
		xs[label] = append(xs[label], points[i].X)
		ys[label] = append(ys[label], points[i].Y)
	}

	stats := make([]Stat, 0, maxClusterID)
	for id := 1; id <= maxClusterID; id++ {
		if len(xs[id]) == 0 {
			continue
		}
		s := Stat{
			ID:        id,
			Size:      len(xs[id]),
			CentroidX: stat.Mean(xs[id], nil),
			CentroidY: stat.Mean(ys[id], nil),
			MinX:      xs[id][0], MaxX: xs[id][0],
			MinY: ys[id][0], MaxY: ys[id][0],
		}
		for i := range xs[id] {
			s.MinX = min(s.MinX, xs[id][i])
			s.MaxX = max(s.MaxX, xs[id][i])
			s.MinY = min(s.MinY, ys[id][i])
			s.MaxY = max(s.MaxY, ys[id][i])
		}
		stats = append(stats, s)
	}
	return stats
}
