package customers

import "github.com/carrierdesk/carrierdesk/internal/shared"

type CreateCustomerRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	ContactEmail       *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	BillingEmail       *string `json:"billingEmail,omitempty" validate:"omitempty,email"`
	PaymentStatusEmail *string `json:"paymentStatusEmail,omitempty" validate:"omitempty,email"`
	Street             *string `json:"street,omitempty"`
	City               *string `json:"city,omitempty"`
	State              *string `json:"state,omitempty"`
	Zip                *string `json:"zip,omitempty"`
	Country            *string `json:"country,omitempty"`
}

type UpdateCustomerRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,max=200"`
	ContactEmail       *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	BillingEmail       *string `json:"billingEmail,omitempty" validate:"omitempty,email"`
	PaymentStatusEmail *string `json:"paymentStatusEmail,omitempty" validate:"omitempty,email"`
	Street             *string `json:"street,omitempty"`
	City               *string `json:"city,omitempty"`
	State              *string `json:"state,omitempty"`
	Zip                *string `json:"zip,omitempty"`
	Country            *string `json:"country,omitempty"`
}

type ListCustomersRequest struct {
	CarrierID string
	Search    string
	Page      shared.PageRequest
}
