package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fire-cluster-etl/internal/geo"
)

func TestNewTransform_Unsupported(t *testing.T) {
	_, err := geo.NewTransform(geo.WGS84, "EPSG:9999")
	assert.Error(t, err)

	_, err = geo.NewTransform(geo.WGS84, "UTM14N")
	assert.Error(t, err)

	// Only a geographic WGS-84 source is supported.
	_, err = geo.NewTransform("EPSG:3857", "EPSG:32614")
	assert.Error(t, err)
}

func TestNewTransform_IdentityWhenNoTarget(t *testing.T) {
	tr, err := geo.NewTransform(geo.WGS84, "")
	require.NoError(t, err)
	assert.False(t, tr.Planar())
	assert.Equal(t, geo.WGS84, tr.Target())

	x, y := tr.Project(-98.5, 31.25)
	assert.Equal(t, -98.5, x)
	assert.Equal(t, 31.25, y)

	// An empty source defaults to WGS-84.
	tr, err = geo.NewTransform("", "")
	require.NoError(t, err)
	x, y = tr.Project(10, 20)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)
}

func TestTransform_WebMercator(t *testing.T) {
	tr, err := geo.NewTransform(geo.WGS84, "EPSG:3857")
	require.NoError(t, err)
	assert.True(t, tr.Planar())

	x, y := tr.Project(0, 0)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)

	x1, _ := tr.Project(1, 0)
	x2, _ := tr.Project(2, 0)
	assert.Greater(t, x2, x1)
	assert.Greater(t, x1, 0.0)
}

func TestTransform_UTMCentralMeridian(t *testing.T) {
	// Zone 14 north, central meridian 99W: points on the central meridian
	// sit exactly at the false easting.
	tr, err := geo.NewTransform(geo.WGS84, "EPSG:32614")
	require.NoError(t, err)
	assert.True(t, tr.Planar())
	assert.Equal(t, "EPSG:32614", tr.Target())

	x, _ := tr.Project(-99, 35)
	assert.InDelta(t, 500000, x, 1e-6)

	// East of the central meridian means easting above 500km, west below.
	east, _ := tr.Project(-98, 35)
	west, _ := tr.Project(-100, 35)
	assert.Greater(t, east, 500000.0)
	assert.Less(t, west, 500000.0)
}

func TestTransform_UTMEquatorNorthing(t *testing.T) {
	tr, err := geo.NewTransform(geo.WGS84, "EPSG:32614")
	require.NoError(t, err)

	_, y := tr.Project(-99, 0)
	assert.InDelta(t, 0, y, 1e-6)

	_, yn := tr.Project(-99, 1)
	assert.Greater(t, yn, 100000.0) // ~110.6 km per degree of latitude
	assert.Less(t, yn, 120000.0)
}

func TestTransform_UTMSouthernFalseNorthing(t *testing.T) {
	// Zone 33 south, 30S on the central meridian: northing is the 10,000 km
	// false northing minus the scaled meridional arc (~3320 km).
	tr, err := geo.NewTransform(geo.WGS84, "EPSG:32733")
	require.NoError(t, err)

	_, y := tr.Project(15, -30)
	assert.InDelta(t, 6.681e6, y, 2e4)
}

func TestTransform_UTMLocalDistancesAreMetric(t *testing.T) {
	tr, err := geo.NewTransform(geo.WGS84, "EPSG:32614")
	require.NoError(t, err)

	// Two points 0.01 degrees of longitude apart at 35N. The projected
	// separation must match the ellipsoidal parallel-arc distance within
	// the UTM scale tolerance.
	lat := 35.0
	x1, y1 := tr.Project(-98.0, lat)
	x2, y2 := tr.Project(-98.01, lat)
	got := math.Hypot(x2-x1, y2-y1)

	const (
		a  = 6378137.0
		e2 = 0.00669437999014
	)
	sinLat := math.Sin(lat * math.Pi / 180)
	nu := a / math.Sqrt(1-e2*sinLat*sinLat)
	want := 0.01 * math.Pi / 180 * nu * math.Cos(lat*math.Pi/180)

	assert.InDelta(t, want, got, want*0.01)
}
