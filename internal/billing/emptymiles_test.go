package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func endpointAt(id string, pickup, delivery Point, startedAt time.Time) Endpoint {
	return NewEndpoint(id, f64(pickup.Lat), f64(pickup.Lng), f64(delivery.Lat), f64(delivery.Lng), startedAt)
}

func TestSegmentsEmitsOnePerConsecutivePair(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	dallas := Point{Lat: 32.7767, Lng: -96.7970}
	houston := Point{Lat: 29.7604, Lng: -95.3698}
	austin := Point{Lat: 30.2672, Lng: -97.7431}
	sanAntonio := Point{Lat: 29.4241, Lng: -98.4936}

	endpoints := []Endpoint{
		endpointAt("a1", dallas, houston, base),
		endpointAt("a2", austin, sanAntonio, base.Add(24*time.Hour)),
		endpointAt("a3", dallas, austin, base.Add(48*time.Hour)),
	}

	segments := Segments(endpoints)
	require.Len(t, segments, 2)

	require.Equal(t, "a1", segments[0].FromAssignmentID)
	require.Equal(t, "a2", segments[0].ToAssignmentID)
	wantFirst := decimal.NewFromFloat(Miles(houston, austin)).Round(2)
	require.True(t, segments[0].Miles.Equal(wantFirst), "got %s want %s", segments[0].Miles, wantFirst)

	require.Equal(t, "a2", segments[1].FromAssignmentID)
	require.Equal(t, "a3", segments[1].ToAssignmentID)
}

func TestSegmentsSortsByStartedAt(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	a := Point{Lat: 40, Lng: -100}
	b := Point{Lat: 41, Lng: -101}
	c := Point{Lat: 42, Lng: -102}

	ordered := Segments([]Endpoint{
		endpointAt("first", a, b, base),
		endpointAt("second", b, c, base.Add(time.Hour)),
	})
	shuffled := Segments([]Endpoint{
		endpointAt("second", b, c, base.Add(time.Hour)),
		endpointAt("first", a, b, base),
	})

	require.Equal(t, ordered, shuffled)
	require.Equal(t, "first", shuffled[0].FromAssignmentID)
}

func TestSegmentsSkipsUnknownCoordinates(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	a := Point{Lat: 40, Lng: -100}
	b := Point{Lat: 41, Lng: -101}
	c := Point{Lat: 42, Lng: -102}

	// Middle assignment has no pickup coordinates: the a1→a2 pair is skipped,
	// not emitted as zero, while a2→a3 still resolves.
	missingPickup := NewEndpoint("a2", nil, nil, f64(b.Lat), f64(b.Lng), base.Add(time.Hour))

	segments := Segments([]Endpoint{
		endpointAt("a1", a, b, base),
		missingPickup,
		endpointAt("a3", c, a, base.Add(2*time.Hour)),
	})

	require.Len(t, segments, 1)
	require.Equal(t, "a2", segments[0].FromAssignmentID)
	require.Equal(t, "a3", segments[0].ToAssignmentID)
}

func TestSegmentsStoredEmptyMilesOverride(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	a := Point{Lat: 40, Lng: -100}
	b := Point{Lat: 41, Lng: -101}
	c := Point{Lat: 42, Lng: -102}

	first := endpointAt("a1", a, b, base)
	first.StoredEmptyMiles = dec("55.5")

	segments := Segments([]Endpoint{
		first,
		endpointAt("a2", c, a, base.Add(time.Hour)),
	})

	require.Len(t, segments, 1)
	require.True(t, segments[0].Miles.Equal(dec("55.5")))
}

func TestSegmentsShortSequences(t *testing.T) {
	require.Nil(t, Segments(nil))
	require.Nil(t, Segments([]Endpoint{
		endpointAt("only", Point{Lat: 40, Lng: -100}, Point{Lat: 41, Lng: -101}, time.Now()),
	}))
}

func TestTotalMiles(t *testing.T) {
	segments := []Segment{
		{Miles: dec("10.25")},
		{Miles: dec("4.75")},
		{Miles: dec("0.10")},
	}
	require.True(t, TotalMiles(segments).Equal(dec("15.10")))
	require.True(t, TotalMiles(nil).IsZero())
}
