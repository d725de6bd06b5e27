// Command cluster runs the annual clustering batch: it reads a FIRMS
// detection CSV, clusters each acquisition year with DBSCAN in planar
// coordinates, and writes the augmented table. When a Kafka sink is
// configured the augmented detections are also published.
//
// Usage:
//
//	TARGET_CRS=EPSG:32614 MIN_POINTS=25 \
//	go run ./cmd/cluster -in firms_archive.csv -out clustered.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	httpadapter "github.com/couchcryptid/fire-cluster-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/fire-cluster-etl/internal/adapter/kafka"

	"github.com/couchcryptid/fire-cluster-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/fire-cluster-etl/internal/cluster"
	"github.com/couchcryptid/fire-cluster-etl/internal/config"
	"github.com/couchcryptid/fire-cluster-etl/internal/observability"
	"github.com/couchcryptid/fire-cluster-etl/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	inPath := flag.String("in", "", "input FIRMS CSV path")
	outPath := flag.String("out", "", "output CSV path")
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		flag.Usage()
		return errors.New("missing required flags: -in, -out")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).
		With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := pipeline.New(cluster.DBSCAN{}, logger, metrics)

	// Metrics/health server is opt-in; most batch runs finish before
	// anyone would scrape them.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, driver, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	table, err := csvfile.ReadFile(*inPath, cfg.Columns, logger)
	if err != nil {
		return err
	}
	metrics.DetectionsIngested.Add(float64(len(table.Detections)))
	for i := 0; i < table.Dropped; i++ {
		metrics.RowsDropped.Inc()
	}

	result, err := driver.ClusterByYear(ctx, table.Detections, pipeline.Options{
		SourceCRS:   cfg.SourceCRS,
		TargetCRS:   cfg.TargetCRS,
		Eps:         cfg.EpsMeters,
		MinPoints:   pipeline.ConstantMinPoints(cfg.MinPoints),
		Years:       yearsFromRange(cfg.YearStart, cfg.YearEnd),
		Parallelism: cfg.Parallelism,
	})
	if err != nil {
		return fmt.Errorf("cluster by year: %w", err)
	}

	logger.Info("run complete",
		"rows_in", len(table.Detections),
		"rows_out", len(result.Detections),
		"rows_dropped", table.Dropped+result.Dropped,
		"years_clustered", len(result.Summaries),
		"years_failed", len(result.Failures),
	)

	if err := csvfile.WriteFile(*outPath, table.Columns, result.Detections); err != nil {
		return err
	}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		if err := writer.PublishBatch(ctx, result.Detections); err != nil {
			writer.Close() //nolint:errcheck // publish error takes precedence
			return fmt.Errorf("publish detections: %w", err)
		}
		metrics.DetectionsPublished.Add(float64(len(result.Detections)))
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	return nil
}

// yearsFromRange expands an inclusive year range into the explicit set the
// driver takes. A zero start means no restriction.
func yearsFromRange(start, end int) []int {
	if start == 0 {
		return nil
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}
