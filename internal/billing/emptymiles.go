package billing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Endpoint is one assignment's pickup and delivery point, ordered by the time
// the driver started the leg. Coordinates may be missing on incomplete stop
// records; the *Valid flags keep "unknown" distinguishable from (0, 0).
type Endpoint struct {
	AssignmentID  string
	Pickup        Point
	PickupValid   bool
	Delivery      Point
	DeliveryValid bool

	// StoredEmptyMiles is a dispatcher-entered figure for the deadhead after
	// this assignment. When positive it overrides the computed distance.
	StoredEmptyMiles decimal.Decimal

	StartedAt time.Time
}

// NewEndpoint builds an Endpoint from nullable coordinates as they come out of
// stop records. A nil or out-of-range coordinate leaves the endpoint invalid.
func NewEndpoint(assignmentID string, pickupLat, pickupLng, deliveryLat, deliveryLng *float64, startedAt time.Time) Endpoint {
	e := Endpoint{AssignmentID: assignmentID, StartedAt: startedAt}
	if pickupLat != nil && pickupLng != nil {
		e.Pickup = Point{Lat: *pickupLat, Lng: *pickupLng}
		e.PickupValid = e.Pickup.Valid()
	}
	if deliveryLat != nil && deliveryLng != nil {
		e.Delivery = Point{Lat: *deliveryLat, Lng: *deliveryLng}
		e.DeliveryValid = e.Delivery.Valid()
	}
	return e
}

// Segment is the deadhead between one assignment's delivery and the next
// assignment's pickup. Segments are derived, never stored.
type Segment struct {
	FromAssignmentID string
	ToAssignmentID   string
	Miles            decimal.Decimal
}

// Segments computes the empty-mile segments for an ordered run of assignments.
// Input order does not matter: endpoints are sorted by StartedAt before
// pairing, so a caller passing unsorted rows gets the same result. The last
// assignment produces no trailing segment, and a pair with unknown coordinates
// is skipped rather than emitted as zero.
func Segments(endpoints []Endpoint) []Segment {
	if len(endpoints) < 2 {
		return nil
	}

	ordered := make([]Endpoint, len(endpoints))
	copy(ordered, endpoints)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartedAt.Before(ordered[j].StartedAt)
	})

	segments := make([]Segment, 0, len(ordered)-1)
	for i := 0; i < len(ordered)-1; i++ {
		cur, next := ordered[i], ordered[i+1]

		if cur.StoredEmptyMiles.IsPositive() {
			segments = append(segments, Segment{
				FromAssignmentID: cur.AssignmentID,
				ToAssignmentID:   next.AssignmentID,
				Miles:            cur.StoredEmptyMiles,
			})
			continue
		}

		if !cur.DeliveryValid || !next.PickupValid {
			continue
		}

		miles := Miles(cur.Delivery, next.Pickup)
		segments = append(segments, Segment{
			FromAssignmentID: cur.AssignmentID,
			ToAssignmentID:   next.AssignmentID,
			Miles:            decimal.NewFromFloat(miles).Round(2),
		})
	}
	return segments
}

// TotalMiles sums the segment distances.
func TotalMiles(segments []Segment) decimal.Decimal {
	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.Miles)
	}
	return total
}
