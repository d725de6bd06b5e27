// Package cluster provides the density-clustering capability: DBSCAN over
// planar points with a grid-bucketed spatial index.
//
// Given N points, [Run] assigns each point an integer label (0 for noise,
// positive integers for cluster identity) and a membership confidence in
// [0,1]. Output is deterministic for a fixed input ordering: labels are
// assigned in first-core-point scan order. The numbering carries no meaning
// across runs or input permutations; only the partition structure is
// contractual.
//
// Membership confidence is 1 for core points (at least MinPts neighbors
// within Eps, the point itself included), neighborhood-size/MinPts for
// border points, and 0 for noise.
package cluster
