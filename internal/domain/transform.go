package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// MalformedDateError reports an acquisition date that does not decompose into
// year-month-day components.
type MalformedDateError struct {
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed acquisition date %q: want YYYY-MM-DD", e.Value)
}

// SplitAcquisitionDate splits a "YYYY-MM-DD" date into its components.
// It requires exactly three non-empty dash-separated parts and a numeric
// year; anything else returns a *MalformedDateError.
func SplitAcquisitionDate(date string) (year, month, day string, err error) {
	parts := strings.Split(strings.TrimSpace(date), "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", &MalformedDateError{Value: date}
	}
	if _, convErr := strconv.Atoi(parts[0]); convErr != nil {
		return "", "", "", &MalformedDateError{Value: date}
	}
	return parts[0], parts[1], parts[2], nil
}

// ParseDetection converts one raw CSV row into a Detection. The coordinate
// and date columns are resolved through cols; every original column is
// retained in Fields so output rows reproduce the input exactly.
func ParseDetection(raw RawRecord, cols Columns) (Detection, error) {
	lonStr, ok := raw.Fields[cols.Longitude]
	if !ok {
		return Detection{}, fmt.Errorf("line %d: missing longitude column %q", raw.Line, cols.Longitude)
	}
	latStr, ok := raw.Fields[cols.Latitude]
	if !ok {
		return Detection{}, fmt.Errorf("line %d: missing latitude column %q", raw.Line, cols.Latitude)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Detection{}, fmt.Errorf("line %d: parse longitude %q: %w", raw.Line, lonStr, err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Detection{}, fmt.Errorf("line %d: parse latitude %q: %w", raw.Line, latStr, err)
	}

	date := strings.TrimSpace(raw.Fields[cols.Date])
	year, month, day, err := SplitAcquisitionDate(date)
	if err != nil {
		return Detection{}, fmt.Errorf("line %d: %w", raw.Line, err)
	}

	fields := make(map[string]string, len(raw.Fields))
	for k, v := range raw.Fields {
		fields[k] = v
	}

	acqTime := raw.Fields["acq_time"]
	satellite := raw.Fields["satellite"]
	instrument := raw.Fields["instrument"]

	return Detection{
		ID:         generateID(instrument, satellite, lat, lon, date, acqTime),
		Lon:        lon,
		Lat:        lat,
		AcqDate:    date,
		AcqTime:    acqTime,
		Satellite:  satellite,
		Instrument: instrument,
		Year:       year,
		Month:      month,
		Day:        day,
		Confidence: raw.Fields["confidence"],
		Fields:     fields,
	}, nil
}

// DeriveDate fills Year/Month/Day from AcqDate if they are not already set.
// Idempotent, so the driver can accept hand-built detections that skipped
// ParseDetection.
func DeriveDate(d Detection) (Detection, error) {
	if d.Year != "" && d.Month != "" && d.Day != "" {
		return d, nil
	}
	year, month, day, err := SplitAcquisitionDate(d.AcqDate)
	if err != nil {
		return d, err
	}
	d.Year, d.Month, d.Day = year, month, day
	return d, nil
}

// YearNumber returns the acquisition year as an integer.
func (d Detection) YearNumber() (int, error) {
	n, err := strconv.Atoi(d.Year)
	if err != nil {
		return 0, &MalformedDateError{Value: d.AcqDate}
	}
	return n, nil
}

// EnrichDetection normalizes the confidence encoding and stamps the
// processing time. Enrichment is additive: no parsed field is modified.
func EnrichDetection(d Detection) Detection {
	d.ConfidenceClass = deriveConfidenceClass(d.Confidence)
	d.ProcessedAt = clock.Now()
	return d
}

// deriveConfidenceClass maps both FIRMS confidence encodings to a three-level
// class. MODIS reports an integer 0-100; VIIRS reports "l"/"n"/"h" (sometimes
// spelled out). Unrecognized values map to "".
func deriveConfidenceClass(confidence string) string {
	c := strings.ToLower(strings.TrimSpace(confidence))
	switch c {
	case "":
		return ""
	case "l", "low":
		return "low"
	case "n", "nominal":
		return "nominal"
	case "h", "high":
		return "high"
	}

	v, err := strconv.ParseFloat(c, 64)
	if err != nil || v < 0 || v > 100 {
		return ""
	}
	switch {
	case v < 30:
		return "low"
	case v < 80:
		return "nominal"
	default:
		return "high"
	}
}

// generateID produces a deterministic ID from the detection's key fields.
// Reprocessing the same archive row always yields the same ID, so downstream
// upserts stay idempotent.
func generateID(instrument, satellite string, lat, lon float64, date, acqTime string) string {
	input := fmt.Sprintf("%s|%s|%.5f|%.5f|%s|%s", instrument, satellite, lat, lon, date, acqTime)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if instrument == "" {
		return short
	}
	return strings.ToLower(instrument) + "-" + short
}
