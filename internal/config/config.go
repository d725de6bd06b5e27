package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/fire-cluster-etl/internal/domain"
	"github.com/couchcryptid/fire-cluster-etl/internal/geo"
)

// Config holds all service settings, populated from environment variables.
// Input and output paths come from command-line flags, not the environment.
type Config struct {
	HTTPAddr        string // empty disables the metrics/health server
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Clustering controls.
	Parallelism int     // 0 means "hardware concurrency - 1"
	EpsMeters   float64 // DBSCAN neighborhood radius
	MinPoints   int     // constant min-points policy
	SourceCRS   string
	TargetCRS   string // empty means no reprojection
	YearStart   int    // 0 means unrestricted
	YearEnd     int

	// CSV column renaming.
	Columns domain.Columns

	// Kafka sink, enabled only when both brokers and topic are set.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	eps, err := parseFloat("EPS_METERS", 2500)
	if err != nil {
		return nil, err
	}

	minPoints, err := parseInt("MIN_POINTS", 3)
	if err != nil {
		return nil, err
	}

	parallelism, err := parseInt("PARALLELISM", 0)
	if err != nil {
		return nil, err
	}

	yearStart, yearEnd, err := parseYearRange(os.Getenv("YEAR_RANGE"))
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	sinkTopic := os.Getenv("KAFKA_SINK_TOPIC")

	cfg := &Config{
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Parallelism: parallelism,
		EpsMeters:   eps,
		MinPoints:   minPoints,
		SourceCRS:   envOrDefault("SOURCE_CRS", geo.WGS84),
		TargetCRS:   os.Getenv("TARGET_CRS"),
		YearStart:   yearStart,
		YearEnd:     yearEnd,

		Columns: domain.Columns{
			Longitude: envOrDefault("LONGITUDE_COLUMN", domain.DefaultColumns().Longitude),
			Latitude:  envOrDefault("LATITUDE_COLUMN", domain.DefaultColumns().Latitude),
			Date:      envOrDefault("DATE_COLUMN", domain.DefaultColumns().Date),
		},

		KafkaBrokers:   brokers,
		KafkaSinkTopic: sinkTopic,
		KafkaEnabled:   len(brokers) > 0 && sinkTopic != "",
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}
	if cfg.EpsMeters <= 0 {
		return nil, errors.New("EPS_METERS must be positive")
	}
	if cfg.MinPoints < 1 {
		return nil, errors.New("MIN_POINTS must be at least 1")
	}
	if cfg.Parallelism < 0 {
		return nil, errors.New("PARALLELISM must not be negative")
	}
	if len(brokers) > 0 && sinkTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_SINK_TOPIC is not")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

// parseYearRange parses "2003-2016" (inclusive) or a single year "2012".
// An empty value means no restriction.
func parseYearRange(s string) (start, end int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	parts := strings.SplitN(s, "-", 2)
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid YEAR_RANGE %q", s)
	}
	if len(parts) == 1 {
		return start, start, nil
	}
	end, err = strconv.Atoi(parts[1])
	if err != nil || end < start {
		return 0, 0, fmt.Errorf("invalid YEAR_RANGE %q", s)
	}
	return start, end, nil
}

func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
