// Package csvfile reads FIRMS archive CSVs into detection records and writes
// the augmented table back out. All columns not named by the coordinate/date
// configuration pass through unmodified, in their original order.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/couchcryptid/fire-cluster-etl/internal/domain"
)

// appended columns on output, in order
var derivedColumns = []string{"year", "month", "day", "cluster_id", "membership_probability"}

// Table is one parsed CSV file: the original header order plus the parsed
// rows. Rows that fail to parse are dropped and counted, matching the
// driver's skip-and-count policy for malformed dates.
type Table struct {
	Columns    []string
	Detections []domain.Detection
	Dropped    int
}

// ReadFile parses a FIRMS CSV file using the given column configuration.
func ReadFile(path string, cols domain.Columns, logger *slog.Logger) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	t, err := Read(f, cols, logger)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Read parses FIRMS CSV from a reader.
func Read(r io.Reader, cols domain.Columns, logger *slog.Logger) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}

	for _, required := range []string{cols.Longitude, cols.Latitude, cols.Date} {
		if !contains(header, required) {
			return Table{}, fmt.Errorf("input is missing required column %q", required)
		}
	}

	t := Table{Columns: header}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return Table{}, fmt.Errorf("read line %d: %w", line, err)
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				fields[col] = row[i]
			}
		}

		det, err := domain.ParseDetection(domain.RawRecord{Fields: fields, Line: line}, cols)
		if err != nil {
			logger.Warn("skipping unparseable row", "error", err)
			t.Dropped++
			continue
		}
		t.Detections = append(t.Detections, det)
	}

	return t, nil
}

// WriteFile writes the augmented table: the original columns in input order
// followed by year, month, day, cluster_id, membership_probability.
func WriteFile(path string, columns []string, detections []domain.Detection) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := Write(f, columns, detections); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Write writes the augmented table to a writer.
func Write(w io.Writer, columns []string, detections []domain.Detection) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(columns)+len(derivedColumns))
	header = append(header, columns...)
	header = append(header, derivedColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, det := range detections {
		for i, col := range columns {
			row[i] = det.Fields[col]
		}
		n := len(columns)
		row[n+0] = det.Year
		row[n+1] = det.Month
		row[n+2] = det.Day
		row[n+3] = strconv.Itoa(det.ClusterID)
		row[n+4] = strconv.FormatFloat(det.Membership, 'f', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func contains(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
