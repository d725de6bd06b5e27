// Package geo provides the coordinate reprojection capability: mapping
// WGS-84 longitude/latitude into a planar reference system so that density
// radii downstream are metric distances rather than angular degrees.
//
// Recognized reference-system identifiers:
//
//	EPSG:4326           geographic WGS-84 (source; also a no-op target)
//	EPSG:3857           Web Mercator (via paulmach/orb)
//	EPSG:32601..32660   UTM zones 1-60 north
//	EPSG:32701..32760   UTM zones 1-60 south
package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// WGS84 is the geographic reference system of raw FIRMS coordinates.
const WGS84 = "EPSG:4326"

// Transform maps (lon, lat) coordinates from a geographic source system to a
// target system. Construction fails on unsupported identifiers; a built
// Transform never fails, matching the deterministic-capability contract.
type Transform struct {
	source  string
	target  string
	planar  bool
	forward func(lon, lat float64) (x, y float64)
}

// NewTransform builds a Transform from source to target. The source must be
// EPSG:4326; an empty target means no reprojection (coordinates pass through
// in degrees).
func NewTransform(source, target string) (*Transform, error) {
	src := normalizeCRS(source)
	if src == "" {
		src = WGS84
	}
	if src != WGS84 {
		return nil, fmt.Errorf("unsupported source crs %q: only %s is supported", source, WGS84)
	}

	tgt := normalizeCRS(target)
	t := &Transform{source: src, target: tgt}

	switch {
	case tgt == "" || tgt == WGS84:
		t.target = src
		t.forward = func(lon, lat float64) (float64, float64) { return lon, lat }
	case tgt == "EPSG:3857":
		t.planar = true
		t.forward = func(lon, lat float64) (float64, float64) {
			p := project.WGS84.ToMercator(orb.Point{lon, lat})
			return p.X(), p.Y()
		}
	default:
		zone, south, err := parseUTMCode(tgt)
		if err != nil {
			return nil, err
		}
		t.planar = true
		t.forward = func(lon, lat float64) (float64, float64) {
			return utmForward(lon, lat, zone, south)
		}
	}

	return t, nil
}

// Project transforms one coordinate pair into the target system.
func (t *Transform) Project(lon, lat float64) (x, y float64) {
	return t.forward(lon, lat)
}

// Planar reports whether projected coordinates are in linear units (meters).
func (t *Transform) Planar() bool {
	return t.planar
}

// Target returns the normalized target reference-system identifier.
func (t *Transform) Target() string {
	return t.target
}

func normalizeCRS(crs string) string {
	return strings.ToUpper(strings.TrimSpace(crs))
}

// parseUTMCode maps EPSG:326xx / EPSG:327xx to a UTM zone and hemisphere.
func parseUTMCode(crs string) (zone int, south bool, err error) {
	code, ok := strings.CutPrefix(crs, "EPSG:")
	if !ok {
		return 0, false, fmt.Errorf("unsupported target crs %q", crs)
	}
	n, convErr := strconv.Atoi(code)
	if convErr != nil {
		return 0, false, fmt.Errorf("unsupported target crs %q", crs)
	}

	switch {
	case n >= 32601 && n <= 32660:
		return n - 32600, false, nil
	case n >= 32701 && n <= 32760:
		return n - 32700, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported target crs %q", crs)
	}
}
