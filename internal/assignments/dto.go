package assignments

import (
	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

type CreateAssignmentRequest struct {
	LoadID   string `json:"loadId" validate:"required,uuid"`
	DriverID string `json:"driverId" validate:"required,uuid"`

	// When nil the driver's default charge terms apply.
	ChargeType  *billing.ChargeType `json:"chargeType,omitempty" validate:"omitempty,oneof=PER_MILE PER_HOUR FIXED_PAY PERCENTAGE_OF_LOAD"`
	ChargeValue *decimal.Decimal    `json:"chargeValue,omitempty"`

	RouteDistanceMeters decimal.Decimal `json:"routeDistanceMeters"`
	RouteDurationHours  decimal.Decimal `json:"routeDurationHours"`

	PickupLat   *float64 `json:"pickupLat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	PickupLng   *float64 `json:"pickupLng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	DeliveryLat *float64 `json:"deliveryLat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	DeliveryLng *float64 `json:"deliveryLng,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=ASSIGNED IN_PROGRESS COMPLETED"`
}

type UpdateBillingRequest struct {
	ChargeType          *billing.ChargeType `json:"chargeType,omitempty" validate:"omitempty,oneof=PER_MILE PER_HOUR FIXED_PAY PERCENTAGE_OF_LOAD"`
	ChargeValue         *decimal.Decimal    `json:"chargeValue,omitempty"`
	BilledDistanceMiles *decimal.Decimal    `json:"billedDistanceMiles,omitempty"`
	BilledDurationHours *decimal.Decimal    `json:"billedDurationHours,omitempty"`
	BilledLoadRate      *decimal.Decimal    `json:"billedLoadRate,omitempty"`
	EmptyMiles          *decimal.Decimal    `json:"emptyMiles,omitempty"`
}

type ListAssignmentsRequest struct {
	CarrierID string
	DriverID  string
	LoadID    string
	Status    Status
	Page      shared.PageRequest
}
