package cluster_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fire-cluster-etl/internal/cluster"
)

func TestRun_EmptyInput(t *testing.T) {
	res, err := cluster.Run(nil, cluster.Params{Eps: 1, MinPts: 3})
	require.NoError(t, err)
	assert.Empty(t, res.Labels)
	assert.Empty(t, res.Membership)
	assert.Equal(t, cluster.Summary{}, res.Summary)
}

func TestRun_InvalidParams(t *testing.T) {
	pts := []cluster.Point{{X: 0, Y: 0}}

	_, err := cluster.Run(pts, cluster.Params{Eps: 0, MinPts: 3})
	assert.Error(t, err)

	_, err = cluster.Run(pts, cluster.Params{Eps: -1, MinPts: 3})
	assert.Error(t, err)

	_, err = cluster.Run(pts, cluster.Params{Eps: math.Inf(1), MinPts: 3})
	assert.Error(t, err)

	_, err = cluster.Run(pts, cluster.Params{Eps: 1, MinPts: 0})
	assert.Error(t, err)
}

func TestRun_DegenerateGeometry(t *testing.T) {
	pts := []cluster.Point{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}}
	_, err := cluster.Run(pts, cluster.Params{Eps: 1, MinPts: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degenerate geometry")
}

func TestRun_TwoTightGroups(t *testing.T) {
	// Two groups of three, each within eps of one another, separated by far
	// more than eps.
	pts := []cluster.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		{X: 1000, Y: 1000}, {X: 1001, Y: 1000}, {X: 1000, Y: 1001},
	}

	res, err := cluster.Run(pts, cluster.Params{Eps: 2, MinPts: 3})
	require.NoError(t, err)

	assert.Equal(t, cluster.Summary{Noise: 0, Clustered: 6, Clusters: 2}, res.Summary)

	// Group members share a label; the two groups differ.
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.Equal(t, res.Labels[0], res.Labels[2])
	assert.Equal(t, res.Labels[3], res.Labels[4])
	assert.Equal(t, res.Labels[3], res.Labels[5])
	assert.NotEqual(t, res.Labels[0], res.Labels[3])

	// Every point is core here, so membership is 1 throughout, and no
	// clustered point carries the reserved noise label.
	for i := range pts {
		assert.NotEqual(t, cluster.Noise, res.Labels[i])
		assert.Equal(t, 1.0, res.Membership[i])
	}
}

func TestRun_AllNoise(t *testing.T) {
	pts := []cluster.Point{
		{X: 0, Y: 0}, {X: 100, Y: 100}, {X: -100, Y: 50}, {X: 200, Y: -200},
	}

	res, err := cluster.Run(pts, cluster.Params{Eps: 10, MinPts: 3})
	require.NoError(t, err)

	assert.Equal(t, cluster.Summary{Noise: 4, Clustered: 0, Clusters: 0}, res.Summary)
	for i := range pts {
		assert.Equal(t, cluster.Noise, res.Labels[i])
		assert.Equal(t, 0.0, res.Membership[i])
	}
	assert.Empty(t, res.Stats)
}

func TestRun_BorderMembership(t *testing.T) {
	// A chain where only the middle point is core: the ends are border
	// points with a neighborhood of two against a threshold of three.
	pts := []cluster.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
	}

	res, err := cluster.Run(pts, cluster.Params{Eps: 1.5, MinPts: 3})
	require.NoError(t, err)

	assert.Equal(t, cluster.Summary{Noise: 0, Clustered: 3, Clusters: 1}, res.Summary)
	assert.Equal(t, res.Labels[0], res.Labels[1])
	assert.Equal(t, res.Labels[1], res.Labels[2])

	assert.InDelta(t, 2.0/3.0, res.Membership[0], 1e-12)
	assert.Equal(t, 1.0, res.Membership[1])
	assert.InDelta(t, 2.0/3.0, res.Membership[2], 1e-12)
}

func TestRun_Deterministic(t *testing.T) {
	pts := []cluster.Point{
		{X: 3, Y: 4}, {X: 3.5, Y: 4.2}, {X: 2.9, Y: 3.8},
		{X: 50, Y: 50}, {X: 50.4, Y: 49.8}, {X: 49.7, Y: 50.3},
		{X: 500, Y: -500},
		{X: -17, Y: 12},
	}
	params := cluster.Params{Eps: 1, MinPts: 3}

	first, err := cluster.Run(pts, params)
	require.NoError(t, err)
	second, err := cluster.Run(pts, params)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Labels, second.Labels); diff != "" {
		t.Fatalf("labels mismatch (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Membership, second.Membership); diff != "" {
		t.Fatalf("membership mismatch (-first +second):\n%s", diff)
	}
}

func TestRun_Stats(t *testing.T) {
	pts := []cluster.Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 3},
		{X: 900, Y: 900},
	}

	res, err := cluster.Run(pts, cluster.Params{Eps: 4, MinPts: 3})
	require.NoError(t, err)
	require.Len(t, res.Stats, 1)

	s := res.Stats[0]
	assert.Equal(t, 3, s.Size)
	assert.InDelta(t, 1.0, s.CentroidX, 1e-12)
	assert.InDelta(t, 1.0, s.CentroidY, 1e-12)
	assert.Equal(t, 0.0, s.MinX)
	assert.Equal(t, 2.0, s.MaxX)
	assert.Equal(t, 0.0, s.MinY)
	assert.Equal(t, 3.0, s.MaxY)
}
