package loads

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

type StopInput struct {
	Type   StopType   `json:"type" validate:"required,oneof=SHIPPER RECEIVER STOP"`
	Name   string     `json:"name" validate:"required,max=200"`
	Street *string    `json:"street,omitempty"`
	City   *string    `json:"city,omitempty"`
	State  *string    `json:"state,omitempty"`
	Zip    *string    `json:"zip,omitempty"`
	Lat    *float64   `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng    *float64   `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Window *time.Time `json:"window,omitempty"`
}

type CreateLoadRequest struct {
	RefNum             string          `json:"refNum" validate:"required,max=100"`
	CustomerID         string          `json:"customerId" validate:"required,uuid"`
	Rate               decimal.Decimal `json:"rate"`
	RouteDistanceMiles decimal.Decimal `json:"routeDistanceMiles"`
	RouteDurationHours decimal.Decimal `json:"routeDurationHours"`
	Stops              []StopInput     `json:"stops" validate:"min=2,dive"`
}

type UpdateLoadRequest struct {
	RefNum             *string          `json:"refNum,omitempty" validate:"omitempty,max=100"`
	CustomerID         *string          `json:"customerId,omitempty" validate:"omitempty,uuid"`
	Rate               *decimal.Decimal `json:"rate,omitempty"`
	RouteDistanceMiles *decimal.Decimal `json:"routeDistanceMiles,omitempty"`
	RouteDurationHours *decimal.Decimal `json:"routeDurationHours,omitempty"`
	Status             *Status          `json:"status,omitempty" validate:"omitempty,oneof=PENDING COMPLETED"`
	Stops              []StopInput      `json:"stops,omitempty" validate:"omitempty,min=2,dive"`
}

type ListLoadsRequest struct {
	CarrierID string
	Status    Status
	Sort      string
	Page      shared.PageRequest
}
