package domain

import "time"

// Columns names the CSV columns holding position and acquisition date.
// Regional FIRMS mirrors rename these, so they are configuration, not
// constants.
type Columns struct {
	Longitude string
	Latitude  string
	Date      string
}

// DefaultColumns returns the column names used by the standard FIRMS archive
// CSV layout.
func DefaultColumns() Columns {
	return Columns{
		Longitude: "longitude",
		Latitude:  "latitude",
		Date:      "acq_date",
	}
}

// RawRecord is one unprocessed CSV row: every column mapped to its raw string
// value, plus the 1-based line number for error reporting.
type RawRecord struct {
	Fields map[string]string
	Line   int
}

// Detection is the domain-rich representation of one satellite fire
// observation after parsing.
type Detection struct {
	ID  string  `json:"id"`
	Lon float64 `json:"longitude"`
	Lat float64 `json:"latitude"`

	AcqDate    string `json:"acq_date"`
	AcqTime    string `json:"acq_time,omitempty"`
	Satellite  string `json:"satellite,omitempty"`
	Instrument string `json:"instrument,omitempty"`

	// Date components split from AcqDate.
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`

	// Confidence as reported plus the normalized three-level class.
	Confidence      string `json:"confidence,omitempty"`
	ConfidenceClass string `json:"confidence_class,omitempty"`

	// Planar coordinates after reprojection. Equal to Lon/Lat when no
	// target reference system is configured.
	X float64 `json:"projected_x"`
	Y float64 `json:"projected_y"`

	// Clustering enrichment. ClusterID 0 means noise; identifiers are
	// unique only within an acquisition year.
	ClusterID  int     `json:"cluster_id"`
	Membership float64 `json:"membership_probability"`

	// Passthrough instrument-reported columns, keyed by original column
	// name. Includes the raw coordinate and date strings so output rows
	// reproduce the input exactly.
	Fields map[string]string `json:"fields,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Clustered reports whether the detection was assigned to a cluster rather
// than labeled noise.
func (d Detection) Clustered() bool {
	return d.ClusterID != 0
}
