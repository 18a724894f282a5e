package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/loads"
	"github.com/carrierdesk/carrierdesk/internal/platform/cache"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, carrierID, loadID string, invoicedAt time.Time, dueNetDays int, total decimal.Decimal, items []ItemInput) (string, error)
	Get(ctx context.Context, carrierID, id string) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	ListPayments(ctx context.Context, invoiceID string) ([]Payment, error)
	AddPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, paidAt time.Time, note *string) (string, error)
	DeletePayment(ctx context.Context, invoiceID, paymentID string) (bool, error)
	ApplyBalance(ctx context.Context, carrierID, id string, bal billing.Balance, stored billing.InvoiceStatus) error
	Stats(ctx context.Context, carrierID string, monthStart, monthEnd time.Time) (*Stats, error)
}

// LoadDirectory is the slice of the loads service invoicing drives.
type LoadDirectory interface {
	Get(ctx context.Context, carrierID, id string) (*loads.Load, error)
	SetStatus(ctx context.Context, carrierID, id string, status loads.Status) error
}

// Service handles customer invoicing.
type Service struct {
	repo  Store
	loads LoadDirectory
	cache *cache.Versioned
}

// NewService builds a Service instance.
func NewService(repo Store, loadDir LoadDirectory, statsCache *cache.Versioned) *Service {
	return &Service{repo: repo, loads: loadDir, cache: statsCache}
}

// Create issues an invoice for a load. Total is the load rate plus line
// items; the load moves to INVOICED in the same transaction as the invoice
// row, so a crash between the two cannot leave an invoiced load pending.
func (s *Service) Create(ctx context.Context, carrierID string, req CreateInvoiceRequest) (*Invoice, error) {
	load, err := s.loads.Get(ctx, carrierID, req.LoadID)
	if err != nil {
		return nil, err
	}
	if load.InvoiceID != nil {
		return nil, fmt.Errorf("%w: load %s already invoiced", shared.ErrDuplicate, req.LoadID)
	}

	total := load.Rate
	for _, item := range req.Items {
		if item.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: item amount must not be negative", shared.ErrValidation)
		}
		total = total.Add(item.Amount)
	}

	invoicedAt := time.Now()
	if req.InvoicedAt != nil {
		invoicedAt = *req.InvoicedAt
	}

	id, err := s.repo.Create(ctx, carrierID, req.LoadID, invoicedAt, req.DueNetDays, total, req.Items)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Bump(ctx)
	return s.Get(ctx, carrierID, id)
}

// Get returns one invoice with items and payments.
func (s *Service) Get(ctx context.Context, carrierID, id string) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	return inv, nil
}

// List returns a page of invoices with the total count.
func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	return s.repo.List(ctx, req)
}

// AddPayment records a payment, then reconciles the invoice from the full
// payment list.
func (s *Service) AddPayment(ctx context.Context, carrierID, id string, req AddPaymentRequest) (*Invoice, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrValidation)
	}
	inv, err := s.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	if _, err := s.repo.AddPayment(ctx, id, req.Amount, paidAt, req.Note); err != nil {
		return nil, err
	}
	if err := s.reconcile(ctx, inv); err != nil {
		return nil, err
	}

	_ = s.cache.Bump(ctx)
	return s.Get(ctx, carrierID, id)
}

// DeletePayment removes a payment, then reconciles from the remaining list.
// Status winds back as far as the payments justify.
func (s *Service) DeletePayment(ctx context.Context, carrierID, id, paymentID string) (*Invoice, error) {
	inv, err := s.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeletePayment(ctx, id, paymentID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("%w: payment %s", shared.ErrNotFound, paymentID)
	}
	if err := s.reconcile(ctx, inv); err != nil {
		return nil, err
	}

	_ = s.cache.Bump(ctx)
	return s.Get(ctx, carrierID, id)
}

// reconcile recomputes the invoice balance from all payments and persists it,
// moving the load between INVOICED and PAID as the balance settles or reopens.
func (s *Service) reconcile(ctx context.Context, inv *Invoice) error {
	payments, err := s.repo.ListPayments(ctx, inv.ID)
	if err != nil {
		return err
	}
	bps := make([]billing.Payment, len(payments))
	for i, p := range payments {
		bps[i] = billing.Payment{ID: p.ID, Amount: p.Amount, PaidAt: p.PaidAt}
	}

	now := time.Now()
	bal := billing.Reconcile(inv.TotalAmount, bps, inv.DueDate, inv.DueNetDays, now)

	// OVERDUE stays derived; strip it for the stored column.
	stored := bal.Status
	if stored == billing.StatusOverdue {
		stored = billing.StatusNotPaid
		if bal.Paid.IsPositive() {
			stored = billing.StatusPartiallyPaid
		}
	}
	if err := s.repo.ApplyBalance(ctx, inv.CarrierID, inv.ID, bal, stored); err != nil {
		return err
	}

	loadStatus := loads.StatusInvoiced
	if stored == billing.StatusPaid {
		loadStatus = loads.StatusPaid
	}
	return s.loads.SetStatus(ctx, inv.CarrierID, inv.LoadID, loadStatus)
}

// GetStats returns the invoicing digest, cached per carrier.
func (s *Service) GetStats(ctx context.Context, carrierID string) (*Stats, error) {
	key, err := s.cache.BuildKey(ctx, "stats", carrierID)
	if err != nil {
		return nil, err
	}

	var stats Stats
	err = s.cache.FetchJSON(ctx, key, &stats, func(ctx context.Context) (any, error) {
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return s.repo.Stats(ctx, carrierID, monthStart, monthEnd)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
