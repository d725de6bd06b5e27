// Package pipeline implements the annual cluster driver: it partitions
// detection records by acquisition year, reprojects coordinates, clusters
// each year's subset independently on a bounded worker pool, and
// concatenates the augmented subsets in ascending year order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/fire-cluster-etl/internal/cluster"
	"github.com/couchcryptid/fire-cluster-etl/internal/domain"
	"github.com/couchcryptid/fire-cluster-etl/internal/geo"
	"github.com/couchcryptid/fire-cluster-etl/internal/observability"
)

// Clusterer is the density-clustering capability consumed by the driver.
type Clusterer interface {
	Cluster(points []cluster.Point, params cluster.Params) (cluster.Result, error)
}

// MinPointsPolicy maps an acquisition year to the minimum-neighborhood-size
// parameter for that year, allowing per-year tuning.
type MinPointsPolicy func(year int) int

// ConstantMinPoints returns a policy that uses the same threshold for every
// year.
func ConstantMinPoints(n int) MinPointsPolicy {
	return func(int) int { return n }
}

// Options configures one ClusterByYear invocation.
type Options struct {
	// SourceCRS is the reference system of the raw coordinates. Empty
	// defaults to EPSG:4326, the only supported source.
	SourceCRS string

	// TargetCRS is the optional planar system coordinates are reprojected
	// into before clustering. Empty means clustering runs on raw degrees.
	TargetCRS string

	// Eps is the clustering neighborhood radius, in the units of the
	// target reference system: meters for planar targets, degrees when no
	// reprojection is configured.
	Eps float64

	// MinPoints resolves the per-year density threshold. Required.
	MinPoints MinPointsPolicy

	// Years restricts processing to an explicit set of years. Empty means
	// every distinct year present in the data.
	Years []int

	// Parallelism is the requested worker count; it is capped at hardware
	// concurrency minus one, and zero requests the cap itself.
	Parallelism int
}

// YearSummary reports the outcome of one successfully clustered year.
type YearSummary struct {
	Year      int
	Records   int
	Noise     int
	Clustered int
	Clusters  int
	Duration  time.Duration
}

// YearFailure records a year whose clustering failed. The year contributes
// zero rows to the result; sibling years are unaffected.
type YearFailure struct {
	Year int
	Err  error
}

// Result is the outcome of one driver invocation.
type Result struct {
	// Detections holds the augmented records, ordered by ascending year
	// and original within-year order.
	Detections []domain.Detection

	Summaries []YearSummary
	Failures  []YearFailure

	// Dropped counts input rows skipped for malformed acquisition dates.
	Dropped int
}

// Driver runs annual clustering over detection tables. It holds no state
// between invocations beyond readiness for health reporting.
type Driver struct {
	clusterer Clusterer
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Driver with the given clustering capability and
// observability.
func New(c Clusterer, logger *slog.Logger, metrics *observability.Metrics) *Driver {
	return &Driver{
		clusterer: c,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the driver has completed at least one
// year's clustering.
func (d *Driver) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("driver has not completed any clustering yet")
	}
	return nil
}

// ClusterByYear partitions records by acquisition year and clusters every
// year independently. Records with malformed dates are skipped and counted;
// per-year clustering failures are captured, not propagated. An error is
// returned only for invocation-scope problems such as invalid options, an
// unsupported reference system, or context cancellation.
func (d *Driver) ClusterByYear(ctx context.Context, records []domain.Detection, opts Options) (Result, error) {
	if opts.Eps <= 0 {
		return Result{}, fmt.Errorf("invalid options: eps %v must be positive", opts.Eps)
	}
	if opts.MinPoints == nil {
		return Result{}, errors.New("invalid options: min points policy is required")
	}

	// Reprojection setup happens before per-year dispatch; an unsupported
	// reference system fails the whole invocation.
	transform, err := geo.NewTransform(opts.SourceCRS, opts.TargetCRS)
	if err != nil {
		return Result{}, fmt.Errorf("reprojection setup: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	d.metrics.RunActive.Set(1)
	defer d.metrics.RunActive.Set(0)

	detections, byYear, dropped := d.prepare(records, transform)
	years := resolveYears(opts.Years, byYear)
	workers := WorkerCount(opts.Parallelism)

	d.logger.Info("clustering run started",
		"records", len(detections),
		"dropped", dropped,
		"years", len(years),
		"workers", workers,
		"target_crs", transform.Target(),
	)

	// One task per year. Each task reads its own subset copy and writes
	// its own slot, so tasks share nothing mutable.
	results := make([]yearResult, len(years))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ji := range jobs {
				year := years[ji]
				results[ji] = d.processYear(year, subset(detections, byYear[year]), opts)
			}
		}()
	}

dispatch:
	for ji := range years {
		if len(byYear[years[ji]]) == 0 {
			d.logger.Debug("year has no detections, skipping", "year", years[ji])
			continue
		}
		select {
		case jobs <- ji:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("clustering interrupted: %w", err)
	}

	return d.join(results, dropped), nil
}

// yearResult is one task's outcome: an augmented subset or a captured
// failure. A zero value means the year was empty or never dispatched.
type yearResult struct {
	summary *YearSummary
	rows    []domain.Detection
	failure *YearFailure
}

// prepare copies the input, derives date components, drops malformed rows,
// projects coordinates, and indexes rows by year. Input records are never
// mutated.
func (d *Driver) prepare(records []domain.Detection, transform *geo.Transform) ([]domain.Detection, map[int][]int, int) {
	detections := make([]domain.Detection, 0, len(records))
	byYear := make(map[int][]int)
	dropped := 0

	for _, rec := range records {
		det, err := domain.DeriveDate(rec)
		if err == nil {
			_, err = det.YearNumber()
		}
		if err != nil {
			d.logger.Warn("skipping record with malformed date",
				"error", err, "id", rec.ID, "acq_date", rec.AcqDate)
			d.metrics.RowsDropped.Inc()
			dropped++
			continue
		}

		det.X, det.Y = transform.Project(det.Lon, det.Lat)
		year, _ := det.YearNumber()
		byYear[year] = append(byYear[year], len(detections))
		detections = append(detections, det)
	}
	return detections, byYear, dropped
}

// processYear clusters one year's subset and attaches labels and membership
// scores. Clustering errors are captured as a YearFailure.
func (d *Driver) processYear(year int, dets []domain.Detection, opts Options) yearResult {
	start := time.Now()
	minPts := opts.MinPoints(year)

	points := make([]cluster.Point, len(dets))
	for i, det := range dets {
		points[i] = cluster.Point{X: det.X, Y: det.Y}
	}

	res, err := d.clusterer.Cluster(points, cluster.Params{Eps: opts.Eps, MinPts: minPts})
	if err != nil {
		d.logger.Error("clustering failed, year yields no rows",
			"year", year, "records", len(dets), "min_points", minPts, "error", err)
		d.metrics.YearsFailed.Inc()
		return yearResult{failure: &YearFailure{Year: year, Err: err}}
	}

	for i := range dets {
		dets[i].ClusterID = res.Labels[i]
		dets[i].Membership = res.Membership[i]
		dets[i] = domain.EnrichDetection(dets[i])
	}

	summary := &YearSummary{
		Year:      year,
		Records:   len(dets),
		Noise:     res.Summary.Noise,
		Clustered: res.Summary.Clustered,
		Clusters:  res.Summary.Clusters,
		Duration:  time.Since(start),
	}

	attrs := []any{
		"year", year,
		"records", summary.Records,
		"noise", summary.Noise,
		"clustered", summary.Clustered,
		"clusters", summary.Clusters,
		"min_points", minPts,
		"duration", summary.Duration,
	}
	if largest := largestCluster(res.Stats); largest != nil {
		attrs = append(attrs,
			"largest_cluster_size", largest.Size,
			"largest_cluster_centroid_x", largest.CentroidX,
			"largest_cluster_centroid_y", largest.CentroidY,
		)
	}
	d.logger.Info("year clustered", attrs...)
	d.metrics.YearsProcessed.Inc()
	d.metrics.NoisePoints.Add(float64(summary.Noise))
	d.metrics.ClusteredPoints.Add(float64(summary.Clustered))
	d.metrics.ClustersFound.Add(float64(summary.Clusters))
	d.metrics.YearDuration.Observe(summary.Duration.Seconds())
	d.ready.Store(true)

	return yearResult{summary: summary, rows: dets}
}

// join concatenates per-year outcomes. The results slice is already in
// ascending year order, so concatenation preserves the output ordering
// contract regardless of task completion order.
func (d *Driver) join(results []yearResult, dropped int) Result {
	out := Result{Dropped: dropped}
	for _, r := range results {
		switch {
		case r.failure != nil:
			out.Failures = append(out.Failures, *r.failure)
		case r.summary != nil:
			out.Summaries = append(out.Summaries, *r.summary)
			out.Detections = append(out.Detections, r.rows...)
		}
	}
	return out
}

// largestCluster returns the stat of the biggest cluster, or nil when the
// year produced none.
func largestCluster(stats []cluster.Stat) *cluster.Stat {
	var largest *cluster.Stat
	for i := range stats {
		if largest == nil || stats[i].Size > largest.Size {
			largest = &stats[i]
		}
	}
	return largest
}

// subset copies the rows at the given indices. Indices are ascending, so the
// original within-year order is preserved.
func subset(detections []domain.Detection, indices []int) []domain.Detection {
	rows := make([]domain.Detection, len(indices))
	for i, idx := range indices {
		rows[i] = detections[idx]
	}
	return rows
}

// resolveYears returns the years to process in ascending order: the explicit
// set when given (deduplicated), otherwise the distinct years in the data.
func resolveYears(explicit []int, byYear map[int][]int) []int {
	var years []int
	if len(explicit) > 0 {
		seen := make(map[int]bool, len(explicit))
		for _, y := range explicit {
			if !seen[y] {
				seen[y] = true
				years = append(years, y)
			}
		}
	} else {
		for y := range byYear {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// WorkerCount bounds the requested parallelism to hardware concurrency minus
// one, leaving a unit free for the orchestrating process. A request of zero
// asks for the cap itself; the floor is one worker.
func WorkerCount(requested int) int {
	limit := runtime.NumCPU() - 1
	if limit < 1 {
		limit = 1
	}
	if requested < 1 || requested > limit {
		return limit
	}
	return requested
}
