package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMilesKnownDistances(t *testing.T) {
	newYork := Point{Lat: 40.7128, Lng: -74.0060}
	losAngeles := Point{Lat: 34.0522, Lng: -118.2437}
	chicago := Point{Lat: 41.8781, Lng: -87.6298}

	require.InDelta(t, 2445, Miles(newYork, losAngeles), 10)
	require.InDelta(t, 711, Miles(newYork, chicago), 10)
}

func TestMilesDegenerate(t *testing.T) {
	p := Point{Lat: 39.7392, Lng: -104.9903}
	require.Zero(t, Miles(p, p))
}

func TestMilesSymmetricAndNonNegative(t *testing.T) {
	a := Point{Lat: 47.6062, Lng: -122.3321}
	b := Point{Lat: 25.7617, Lng: -80.1918}

	ab := Miles(a, b)
	ba := Miles(b, a)
	require.InDelta(t, ab, ba, 1e-9)
	require.Greater(t, ab, 0.0)
}

func TestPointValid(t *testing.T) {
	require.True(t, Point{Lat: 0, Lng: 0}.Valid())
	require.True(t, Point{Lat: -90, Lng: 180}.Valid())
	require.False(t, Point{Lat: 91, Lng: 0}.Valid())
	require.False(t, Point{Lat: 0, Lng: -181}.Valid())
	require.False(t, Point{Lat: math.NaN(), Lng: 0}.Valid())
	require.False(t, Point{Lat: 0, Lng: math.Inf(1)}.Valid())
}
