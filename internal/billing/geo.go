// Package billing implements the carrier's pay computation rules: charge-type
// dispatch for driver pay, empty-mile aggregation between assignments, invoice
// payment reconciliation and invoice-period membership. Everything in this
// package is a pure function over in-memory records; persistence and transport
// live in the surrounding modules.
package billing

import "math"

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3959

// Point is an immutable geographic coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point carries usable coordinates. Out-of-range or
// non-finite values come from incomplete stop records and must not feed the
// distance math.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Miles returns the Haversine great-circle distance between a and b in miles.
// Identical points yield 0. Callers are responsible for validating ranges.
func Miles(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
