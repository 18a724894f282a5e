package expenses

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

type CreateExpenseRequest struct {
	Category   string          `json:"category" validate:"required,max=100"`
	Amount     decimal.Decimal `json:"amount"`
	IncurredOn time.Time       `json:"incurredOn" validate:"required"`
	LoadID     *string         `json:"loadId,omitempty" validate:"omitempty,uuid"`
	DriverID   *string         `json:"driverId,omitempty" validate:"omitempty,uuid"`
	ReceiptRef *string         `json:"receiptRef,omitempty" validate:"omitempty,max=300"`
	Note       *string         `json:"note,omitempty" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

type BulkStatusRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,uuid"`
	Status Status   `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type ListExpensesRequest struct {
	CarrierID string
	Status    Status
	Category  string
	FromDate  string
	ToDate    string
	Page      shared.PageRequest
}
