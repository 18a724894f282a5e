package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is derived from an invoice's payments and due date, never set
// independently.
type InvoiceStatus string

const (
	StatusNotPaid       InvoiceStatus = "NOT_PAID"
	StatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	StatusPaid          InvoiceStatus = "PAID"
	StatusOverdue       InvoiceStatus = "OVERDUE"
)

// Payment is one recorded payment against an invoice.
type Payment struct {
	ID     string
	Amount decimal.Decimal
	PaidAt time.Time
}

// Balance is the reconciled state of an invoice.
type Balance struct {
	Total         decimal.Decimal
	Paid          decimal.Decimal
	Remaining     decimal.Decimal
	Status        InvoiceStatus
	Overpaid      bool
	LastPaymentAt *time.Time
}

// Reconcile recomputes an invoice's paid amount, remaining balance and status
// from the full payment list. Adding or deleting a payment must re-run this on
// the resulting list; there is deliberately no incremental path, so repeated
// reconciliation can never drift.
//
// Status precedence: PAID, then OVERDUE, then PARTIALLY_PAID, then NOT_PAID.
// An invoice that is past due and partially paid reports OVERDUE, since that
// is the more urgent signal. Invoices with dueNetDays <= 0 never go overdue.
//
// Remaining is clamped at zero; an overpayment sets Overpaid instead of
// letting a negative balance leak into the status logic.
func Reconcile(total decimal.Decimal, payments []Payment, dueDate time.Time, dueNetDays int, now time.Time) Balance {
	paid := decimal.Zero
	var lastPaymentAt *time.Time
	for _, p := range payments {
		paid = paid.Add(p.Amount)
		if lastPaymentAt == nil || p.PaidAt.After(*lastPaymentAt) {
			t := p.PaidAt
			lastPaymentAt = &t
		}
	}

	remaining := total.Sub(paid)
	overpaid := remaining.IsNegative()
	if overpaid {
		remaining = decimal.Zero
	}

	status := StatusNotPaid
	switch {
	case paid.GreaterThanOrEqual(total):
		status = StatusPaid
	case dueNetDays > 0 && now.After(dueDate):
		status = StatusOverdue
	case paid.IsPositive():
		status = StatusPartiallyPaid
	}

	return Balance{
		Total:         total,
		Paid:          paid,
		Remaining:     remaining,
		Status:        status,
		Overpaid:      overpaid,
		LastPaymentAt: lastPaymentAt,
	}
}

// DueDate returns the payment deadline for an invoice issued at invoicedAt
// with net-days terms.
func DueDate(invoicedAt time.Time, dueNetDays int) time.Time {
	return invoicedAt.AddDate(0, 0, dueNetDays)
}
