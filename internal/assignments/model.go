package assignments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
)

// Status is the lifecycle state of an assignment leg.
type Status string

const (
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Assignment is one driver's leg of a load. The mapping provider reports leg
// distance in meters; the repository converts to miles on the way out, so
// everything above it speaks miles.
type Assignment struct {
	ID        string `json:"id"`
	CarrierID string `json:"-"`
	LoadID    string `json:"loadId"`
	DriverID  string `json:"driverId"`

	DriverName string `json:"driverName"`
	LoadRefNum string `json:"loadRefNum"`

	ChargeType  billing.ChargeType `json:"chargeType"`
	ChargeValue decimal.Decimal    `json:"chargeValue"`

	// Billed overrides; when nil the route figures apply.
	BilledDistanceMiles *decimal.Decimal `json:"billedDistanceMiles,omitempty"`
	BilledDurationHours *decimal.Decimal `json:"billedDurationHours,omitempty"`
	BilledLoadRate      *decimal.Decimal `json:"billedLoadRate,omitempty"`

	EmptyMiles         decimal.Decimal `json:"emptyMiles"`
	RouteDistanceMiles decimal.Decimal `json:"routeDistanceMiles"`
	RouteDurationHours decimal.Decimal `json:"routeDurationHours"`
	LoadRate           decimal.Decimal `json:"loadRate"`

	PickupLat   *float64 `json:"pickupLat,omitempty"`
	PickupLng   *float64 `json:"pickupLng,omitempty"`
	DeliveryLat *float64 `json:"deliveryLat,omitempty"`
	DeliveryLng *float64 `json:"deliveryLng,omitempty"`

	Status      Status     `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Pay is computed from the charge terms on read; never stored.
	Pay decimal.Decimal `json:"pay"`
}

// BillingInput maps the assignment onto the billing calculator's view.
func (a *Assignment) BillingInput() billing.AssignmentBilling {
	return billing.AssignmentBilling{
		BilledDistanceMiles: a.BilledDistanceMiles,
		RouteDistanceMiles:  a.RouteDistanceMiles,
		BilledDurationHours: a.BilledDurationHours,
		RouteDurationHours:  a.RouteDurationHours,
		BilledLoadRate:      a.BilledLoadRate,
		LoadRate:            a.LoadRate,
		EmptyMiles:          a.EmptyMiles,
	}
}
