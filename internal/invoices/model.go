package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
)

// Invoice bills a customer for one load. PaidAmount, RemainingAmount and the
// stored status are recomputed from the full payment list on every payment
// change; OVERDUE is overlaid at read time and never persisted.
type Invoice struct {
	ID           string `json:"id"`
	CarrierID    string `json:"-"`
	LoadID       string `json:"loadId"`
	LoadRefNum   string `json:"loadRefNum"`
	CustomerName string `json:"customerName"`
	Number       string `json:"number"`

	InvoicedAt time.Time `json:"invoicedAt"`
	DueNetDays int       `json:"dueNetDays"`
	DueDate    time.Time `json:"dueDate"`

	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	PaidAmount      decimal.Decimal       `json:"paidAmount"`
	RemainingAmount decimal.Decimal       `json:"remainingAmount"`
	Status          billing.InvoiceStatus `json:"status"`
	Overpaid        bool                  `json:"overpaid"`
	LastPaymentAt   *time.Time            `json:"lastPaymentAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items    []LineItem `json:"items,omitempty"`
	Payments []Payment  `json:"payments,omitempty"`
}

// LineItem is an extra charge on top of the load rate.
type LineItem struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"-"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Payment is one recorded payment against an invoice.
type Payment struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"-"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
	Note      *string         `json:"note,omitempty"`
}

// Stats is the invoicing dashboard digest.
type Stats struct {
	TotalPaidThisMonth decimal.Decimal `json:"totalPaidThisMonth"`
	TotalUnpaid        decimal.Decimal `json:"totalUnpaid"`
	TotalOverdue       decimal.Decimal `json:"totalOverdue"`
}
