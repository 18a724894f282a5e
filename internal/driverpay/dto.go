package driverpay

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

type AdditionalItemInput struct {
	Description string          `json:"description" validate:"required,max=300"`
	Amount      decimal.Decimal `json:"amount"`
}

type PreviewRequest struct {
	DriverID string `json:"driverId" validate:"required,uuid"`
	FromDate string `json:"fromDate" validate:"required"`
	ToDate   string `json:"toDate" validate:"required"`
}

type CreateDriverInvoiceRequest struct {
	DriverID        string                `json:"driverId" validate:"required,uuid"`
	FromDate        string                `json:"fromDate" validate:"required"`
	ToDate          string                `json:"toDate" validate:"required"`
	AdditionalItems []AdditionalItemInput `json:"additionalItems,omitempty" validate:"omitempty,dive"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=PENDING APPROVED PARTIALLY_PAID PAID"`
}

type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paidAt,omitempty"`
	Note   *string         `json:"note,omitempty" validate:"omitempty,max=300"`
}

type ListDriverInvoicesRequest struct {
	CarrierID string
	DriverID  string
	Status    Status
	Page      shared.PageRequest
}
