// Package domain models satellite fire-detection records from NASA FIRMS
// (Fire Information for Resource Management System).
//
// # Data Source
//
// Detections originate from the MODIS (Terra/Aqua) and VIIRS (S-NPP/NOAA-20)
// active-fire products, distributed as flat CSV archives from
// https://firms.modaps.eosdis.nasa.gov/. A download carries, at minimum,
// coordinate and acquisition-date columns plus instrument-reported fields
// (brightness, scan, track, frp, daynight, ...) that pass through the
// pipeline unmodified.
//
// # FIRMS Data Conventions
//
// Coordinates:
//
//	"latitude" and "longitude" in decimal degrees, WGS-84. The column names
//	are configurable because regional mirrors rename them (lat/lon, LAT/LON).
//
// Acquisition date and time:
//
//	"acq_date" is a calendar date "YYYY-MM-DD"; "acq_time" is UTC HHMM with
//	leading zeros sometimes dropped ("23" = 00:23). The date splits into
//	year, month, and day components used to partition the table annually.
//	A date that does not split into exactly three components is rejected
//	with [MalformedDateError].
//
// Confidence encoding (differs by instrument, inconsistent upstream):
//
//	MODIS:  integer 0-100.
//	VIIRS:  letter class "l" (low), "n" (nominal), "h" (high).
//	Both normalize to a three-level class: <30 low, <80 nominal, else high.
//	Unrecognized values map to an empty class. See [deriveConfidenceClass].
//
// # Clustering Enrichment
//
// Downstream processing attaches a per-year cluster identifier and a
// membership confidence to each detection. Cluster ID 0 is reserved for
// noise (unclustered) detections and identifiers are meaningful only within
// a single acquisition year.
//
// # ID Generation
//
// Detection IDs are deterministic SHA-256 hashes of
// instrument|satellite|lat|lon|date|time. Re-ingesting the same archive
// yields the same IDs, which keeps downstream upserts idempotent under
// replay. See [generateID].
package domain
