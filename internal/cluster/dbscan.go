package cluster

import (
	"fmt"
	"math"
)

// Point is one detection in planar coordinates.
type Point struct {
	X, Y float64
}

// Params holds the DBSCAN density parameters.
type Params struct {
	Eps    float64 // neighborhood radius, in the units of the input coordinates
	MinPts int     // minimum neighborhood size (point itself included) to anchor a cluster
}

// Summary counts the outcome of one clustering run.
type Summary struct {
	Noise     int
	Clustered int
	Clusters  int
}

// Result holds per-point labels and membership scores plus aggregates.
// Labels[i] == 0 means points[i] is noise; positive labels identify clusters.
type Result struct {
	Labels     []int
	Membership []float64
	Stats      []Stat
	Summary    Summary
}

// Noise is the reserved label for unclustered points.
const Noise = 0

// internal scan states; remapped to the public labeling before return
const (
	unvisited = 0
	noiseMark = -1
)

// Run performs DBSCAN on the given points. It returns an error for invalid
// parameters or degenerate geometry (non-finite coordinates); an empty input
// yields an empty result.
func Run(points []Point, params Params) (Result, error) {
	if params.Eps <= 0 || math.IsNaN(params.Eps) || math.IsInf(params.Eps, 0) {
		return Result{}, fmt.Errorf("invalid eps %v: must be a positive finite radius", params.Eps)
	}
	if params.MinPts < 1 {
		return Result{}, fmt.Errorf("invalid min points %d: must be at least 1", params.MinPts)
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return Result{}, fmt.Errorf("degenerate geometry: non-finite coordinate at point %d", i)
		}
	}
	if len(points) == 0 {
		return Result{}, nil
	}

	n := len(points)
	labels := make([]int, n)
	si := newSpatialIndex(points, params.Eps)
	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbors := si.regionQuery(points, i, params.Eps)
		if len(neighbors) < params.MinPts {
			labels[i] = noiseMark
			continue
		}
		clusterID++
		expandCluster(points, si, labels, i, neighbors, clusterID, params)
	}

	return buildResult(points, si, labels, clusterID, params), nil
}

// expandCluster grows cluster clusterID outward from a core point using a
// queue over its neighborhood.
func expandCluster(points []Point, si *spatialIndex, labels []int,
	seed int, neighbors []int, clusterID int, params Params) {

	labels[seed] = clusterID

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == noiseMark {
			labels[idx] = clusterID // noise becomes a border point
		}
		if labels[idx] != unvisited {
			continue
		}

		labels[idx] = clusterID
		next := si.regionQuery(points, idx, params.Eps)
		if len(next) >= params.MinPts {
			neighbors = append(neighbors, next...)
		}
	}
}

// buildResult remaps internal scan states to the public labeling, scores
// membership, and aggregates summary counts and per-cluster stats.
func buildResult(points []Point, si *spatialIndex, labels []int, maxClusterID int, params Params) Result {
	n := len(points)
	out := Result{
		Labels:     make([]int, n),
		Membership: make([]float64, n),
	}

	for i, label := range labels {
		if label == noiseMark {
			out.Labels[i] = Noise
			out.Summary.Noise++
			continue
		}
		out.Labels[i] = label
		out.Summary.Clustered++

		k := len(si.regionQuery(points, i, params.Eps))
		if k >= params.MinPts {
			out.Membership[i] = 1
		} else {
			out.Membership[i] = float64(k) / float64(params.MinPts)
		}
	}

	out.Summary.Clusters = maxClusterID
	out.Stats = buildStats(points, out.Labels, maxClusterID)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DBSCAN is the stateless default implementation of the driver's Clusterer
// dependency.
type DBSCAN struct{}

// Cluster runs DBSCAN with the given parameters.
func (DBSCAN) Cluster(points []Point, params Params) (Result, error) {
	return Run(points, params)
}
