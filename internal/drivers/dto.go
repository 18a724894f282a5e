package drivers

import (
	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

type CreateDriverRequest struct {
	Name               string             `json:"name" validate:"required,max=200"`
	Email              *string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string            `json:"phone,omitempty" validate:"omitempty,max=30"`
	DefaultChargeType  billing.ChargeType `json:"defaultChargeType" validate:"required,oneof=PER_MILE PER_HOUR FIXED_PAY PERCENTAGE_OF_LOAD"`
	DefaultChargeValue decimal.Decimal    `json:"defaultChargeValue"`
}

type UpdateDriverRequest struct {
	Name               *string             `json:"name,omitempty" validate:"omitempty,max=200"`
	Email              *string             `json:"email,omitempty" validate:"omitempty,email"`
	Phone              *string             `json:"phone,omitempty" validate:"omitempty,max=30"`
	Active             *bool               `json:"active,omitempty"`
	DefaultChargeType  *billing.ChargeType `json:"defaultChargeType,omitempty" validate:"omitempty,oneof=PER_MILE PER_HOUR FIXED_PAY PERCENTAGE_OF_LOAD"`
	DefaultChargeValue *decimal.Decimal    `json:"defaultChargeValue,omitempty"`
}

type ListDriversRequest struct {
	CarrierID  string
	ActiveOnly bool
	Page       shared.PageRequest
}
