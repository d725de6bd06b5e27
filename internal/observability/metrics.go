package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// annual clustering run.
type Metrics struct {
	DetectionsIngested  prometheus.Counter
	RowsDropped         prometheus.Counter
	DetectionsPublished prometheus.Counter

	// Per-year clustering metrics.
	YearsProcessed  prometheus.Counter
	YearsFailed     prometheus.Counter
	NoisePoints     prometheus.Counter
	ClusteredPoints prometheus.Counter
	ClustersFound   prometheus.Counter
	YearDuration    prometheus.Histogram

	RunActive prometheus.Gauge
}

// NewMetrics creates and registers all run metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DetectionsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "detections_ingested_total",
			Help:      "Total detection rows read from the input table.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "rows_dropped_total",
			Help:      "Input rows skipped for malformed dates or coordinates.",
		}),
		DetectionsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "detections_published_total",
			Help:      "Augmented detections published to the sink topic.",
		}),
		YearsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "years_processed_total",
			Help:      "Acquisition years clustered successfully.",
		}),
		YearsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "years_failed_total",
			Help:      "Acquisition years whose clustering failed.",
		}),
		NoisePoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "noise_points_total",
			Help:      "Detections labeled noise (cluster 0).",
		}),
		ClusteredPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "clustered_points_total",
			Help:      "Detections assigned to a non-zero cluster.",
		}),
		ClustersFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "firecluster",
			Name:      "clusters_found_total",
			Help:      "Distinct non-zero clusters across all processed years.",
		}),
		YearDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "firecluster",
			Name:      "year_processing_duration_seconds",
			Help:      "Duration of one year's reproject-and-cluster task.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "firecluster",
			Name:      "run_active",
			Help:      "1 while a clustering run is in progress, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.DetectionsIngested,
		m.RowsDropped,
		m.DetectionsPublished,
		m.YearsProcessed,
		m.YearsFailed,
		m.NoisePoints,
		m.ClusteredPoints,
		m.ClustersFound,
		m.YearDuration,
		m.RunActive,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DetectionsIngested:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "detections_ingested_total"}),
		RowsDropped:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "rows_dropped_total"}),
		DetectionsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "detections_published_total"}),
		YearsProcessed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "years_processed_total"}),
		YearsFailed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "years_failed_total"}),
		NoisePoints:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "noise_points_total"}),
		ClusteredPoints:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "clustered_points_total"}),
		ClustersFound:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "firecluster", Name: "clusters_found_total"}),
		YearDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "firecluster", Name: "year_processing_duration_seconds"}),
		RunActive:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "firecluster", Name: "run_active"}),
	}
}
