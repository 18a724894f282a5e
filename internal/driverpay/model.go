package driverpay

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/assignments"
)

// Status is the driver-invoice lifecycle. Unlike customer invoices there is
// no due date; the status moves forward only.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusApproved      Status = "APPROVED"
	StatusPartiallyPaid Status = "PARTIALLY_PAID"
	StatusPaid          Status = "PAID"
)

// ItemKind distinguishes snapshotted assignment pay from manual additions.
type ItemKind string

const (
	ItemAssignment ItemKind = "ASSIGNMENT"
	ItemAdditional ItemKind = "ADDITIONAL"
)

// DriverInvoice settles a driver's completed assignments over a period. Line
// items are snapshotted at creation so later charge-term edits on the
// assignment do not reprice an issued invoice.
type DriverInvoice struct {
	ID         string `json:"id"`
	CarrierID  string `json:"-"`
	DriverID   string `json:"driverId"`
	DriverName string `json:"driverName"`
	Number     string `json:"number"`

	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          Status          `json:"status"`
	LastPaymentAt   *time.Time      `json:"lastPaymentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items    []Item    `json:"items,omitempty"`
	Payments []Payment `json:"payments,omitempty"`
}

// Item is one line on a driver invoice.
type Item struct {
	ID              string          `json:"id"`
	DriverInvoiceID string          `json:"-"`
	Kind            ItemKind        `json:"kind"`
	AssignmentID    *string         `json:"assignmentId,omitempty"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
}

// Payment is one recorded payment to the driver.
type Payment struct {
	ID              string          `json:"id"`
	DriverInvoiceID string          `json:"-"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAt          time.Time       `json:"paidAt"`
	Note            *string         `json:"note,omitempty"`
}

// Preview is the computed settlement for a driver and period before an
// invoice is created from it.
type Preview struct {
	DriverID string    `json:"driverId"`
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	Assignments []assignments.Assignment `json:"assignments"`
	Segments    []SegmentView            `json:"segments"`

	TotalPay        decimal.Decimal `json:"totalPay"`
	TotalRouteMiles decimal.Decimal `json:"totalRouteMiles"`
	TotalEmptyMiles decimal.Decimal `json:"totalEmptyMiles"`
	SegmentCount    int             `json:"segmentCount"`
}

// SegmentView is the wire shape of a deadhead segment.
type SegmentView struct {
	FromAssignmentID string          `json:"fromAssignmentId"`
	ToAssignmentID   string          `json:"toAssignmentId"`
	Miles            decimal.Decimal `json:"miles"`
}

// StatusCount is one row of the driver-invoice digest.
type StatusCount struct {
	Status Status          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}
