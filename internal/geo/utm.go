package geo

import "math"

// WGS-84 ellipsoid and UTM constants.
const (
	semiMajor = 6378137.0
	flat      = 1 / 298.257223563

	utmScale        = 0.9996
	falseEasting    = 500000.0
	falseNorthingSH = 10000000.0
)

// utmForward converts WGS-84 longitude/latitude (degrees) to UTM easting and
// northing (meters) in the given zone using the transverse Mercator series
// from Snyder, "Map Projections: A Working Manual" (USGS PP 1395, eq. 8-9
// through 8-15). Points outside the zone still project; accuracy degrades
// with distance from the central meridian, which is acceptable for relative
// density distances.
func utmForward(lonDeg, latDeg float64, zone int, south bool) (easting, northing float64) {
	e2 := flat * (2 - flat)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)

	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	lon0 := centralMeridian(zone) * math.Pi / 180

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	n := semiMajor / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * (lon - lon0)

	// Meridional arc from the equator to lat.
	m := semiMajor * ((1-e2/4-3*e4/64-5*e6/256)*lat -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*lat) +
		(15*e4/256+45*e6/1024)*math.Sin(4*lat) -
		(35*e6/3072)*math.Sin(6*lat))

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	easting = falseEasting + utmScale*n*(a+
		(1-t+c)*a3/6+
		(5-18*t+t*t+72*c-58*ep2)*a5/120)

	northing = utmScale * (m + n*tanLat*(a2/2+
		(5-t+9*c+4*c*c)*a4/24+
		(61-58*t+t*t+600*c-330*ep2)*a6/720))
	if south {
		northing += falseNorthingSH
	}

	return easting, northing
}

// centralMeridian returns the central meridian of a UTM zone in degrees.
func centralMeridian(zone int) float64 {
	return float64(zone)*6 - 183
}
