package customers

import "time"

// Customer is a shipper the carrier bills for loads.
type Customer struct {
	ID                 string    `json:"id"`
	CarrierID          string    `json:"-"`
	Name               string    `json:"name"`
	ContactEmail       *string   `json:"contactEmail,omitempty"`
	BillingEmail       *string   `json:"billingEmail,omitempty"`
	PaymentStatusEmail *string   `json:"paymentStatusEmail,omitempty"`
	Street             *string   `json:"street,omitempty"`
	City               *string   `json:"city,omitempty"`
	State              *string   `json:"state,omitempty"`
	Zip                *string   `json:"zip,omitempty"`
	Country            *string   `json:"country,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
