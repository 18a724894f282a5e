package loads

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a load. PENDING through PAID are stored;
// OVERDUE is derived from the load's invoice at read time and never persisted.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusInvoiced  Status = "INVOICED"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
)

// StopType classifies a load stop.
type StopType string

const (
	StopShipper  StopType = "SHIPPER"
	StopReceiver StopType = "RECEIVER"
	StopExtra    StopType = "STOP"
)

// Load is a carrier-scoped shipment with its route summary. Route distance is
// kept in miles; sources that report meters are converted before storage.
type Load struct {
	ID                 string          `json:"id"`
	CarrierID          string          `json:"-"`
	RefNum             string          `json:"refNum"`
	CustomerID         string          `json:"customerId"`
	CustomerName       string          `json:"customerName"`
	Rate               decimal.Decimal `json:"rate"`
	RouteDistanceMiles decimal.Decimal `json:"routeDistanceMiles"`
	RouteDurationHours decimal.Decimal `json:"routeDurationHours"`
	Status             Status          `json:"status"`
	InvoiceID          *string         `json:"invoiceId,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`

	Stops []Stop `json:"stops,omitempty"`
}

// Stop is a single pickup, delivery, or intermediate stop on a load's route.
type Stop struct {
	ID       string     `json:"id"`
	LoadID   string     `json:"-"`
	Type     StopType   `json:"type"`
	Sequence int        `json:"sequence"`
	Name     string     `json:"name"`
	Street   *string    `json:"street,omitempty"`
	City     *string    `json:"city,omitempty"`
	State    *string    `json:"state,omitempty"`
	Zip      *string    `json:"zip,omitempty"`
	Lat      *float64   `json:"lat,omitempty"`
	Lng      *float64   `json:"lng,omitempty"`
	Window   *time.Time `json:"window,omitempty"`
}
