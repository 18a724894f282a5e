package drivers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
)

// Driver is a carrier employee or contractor assigned to route legs.
type Driver struct {
	ID        string    `json:"id"`
	CarrierID string    `json:"-"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Default charge terms applied when a new assignment is created for this
	// driver; individual assignments can override both.
	DefaultChargeType  billing.ChargeType `json:"defaultChargeType"`
	DefaultChargeValue decimal.Decimal    `json:"defaultChargeValue"`
}

// PaymentRow is one driver-invoice payment joined for the driver payments view.
type PaymentRow struct {
	ID              string          `json:"id"`
	DriverInvoiceID string          `json:"driverInvoiceId"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAt          time.Time       `json:"paidAt"`
}
