package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

type ItemInput struct {
	Description string          `json:"description" validate:"required,max=300"`
	Amount      decimal.Decimal `json:"amount"`
}

type CreateInvoiceRequest struct {
	LoadID     string      `json:"loadId" validate:"required,uuid"`
	DueNetDays int         `json:"dueNetDays" validate:"gte=0,lte=365"`
	InvoicedAt *time.Time  `json:"invoicedAt,omitempty"`
	Items      []ItemInput `json:"items,omitempty" validate:"omitempty,dive"`
}

type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paidAt,omitempty"`
	Note   *string         `json:"note,omitempty" validate:"omitempty,max=300"`
}

type ListInvoicesRequest struct {
	CarrierID string
	Status    billing.InvoiceStatus
	Page      shared.PageRequest
}
