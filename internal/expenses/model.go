package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the approval state of an expense.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Expense is a cost booked against the carrier, optionally tied to a load or
// a driver.
type Expense struct {
	ID         string          `json:"id"`
	CarrierID  string          `json:"-"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	IncurredOn time.Time       `json:"incurredOn"`
	LoadID     *string         `json:"loadId,omitempty"`
	DriverID   *string         `json:"driverId,omitempty"`
	ReceiptRef *string         `json:"receiptRef,omitempty"`
	Note       *string         `json:"note,omitempty"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
