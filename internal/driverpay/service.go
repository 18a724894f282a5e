package driverpay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carrierdesk/carrierdesk/internal/assignments"
	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/drivers"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, carrierID, driverID string, from, to time.Time, total decimal.Decimal, items []Item) (string, error)
	Get(ctx context.Context, carrierID, id string) (*DriverInvoice, error)
	List(ctx context.Context, req ListDriverInvoicesRequest) ([]DriverInvoice, int, error)
	ListPayments(ctx context.Context, driverInvoiceID string) ([]Payment, error)
	AddPayment(ctx context.Context, driverInvoiceID string, amount decimal.Decimal, paidAt time.Time, note *string) (string, error)
	DeletePayment(ctx context.Context, driverInvoiceID, paymentID string) (bool, error)
	SetStatus(ctx context.Context, carrierID, id string, status Status) error
	ApplyBalance(ctx context.Context, carrierID, id string, paid, remaining decimal.Decimal, status Status, lastPaymentAt *time.Time) error
	Stats(ctx context.Context, carrierID string) ([]StatusCount, error)
}

// AssignmentSource supplies completed legs with computed pay.
type AssignmentSource interface {
	ListCompletedForDriver(ctx context.Context, carrierID, driverID string) ([]assignments.Assignment, error)
}

// DriverDirectory resolves drivers for validation.
type DriverDirectory interface {
	Get(ctx context.Context, carrierID, id string) (*drivers.Driver, error)
}

// Notifier dispatches driver-invoice notifications. Failures are logged, not
// surfaced; a missed notification must not roll back an approval.
type Notifier interface {
	DriverInvoiceApproved(ctx context.Context, carrierID, driverInvoiceID, driverID string) error
}

// Service handles driver invoicing.
type Service struct {
	logger      *slog.Logger
	repo        Store
	assignments AssignmentSource
	drivers     DriverDirectory
	notifier    Notifier
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, repo Store, source AssignmentSource, driverDir DriverDirectory, notifier Notifier) *Service {
	return &Service{logger: logger, repo: repo, assignments: source, drivers: driverDir, notifier: notifier}
}

// Preview computes the settlement for a driver and period without creating
// anything: completed assignments in the window, per-leg pay, and the
// deadhead segments between per-mile legs.
func (s *Service) Preview(ctx context.Context, carrierID string, req PreviewRequest) (*Preview, error) {
	period, err := billing.ParsePeriod(req.FromDate, req.ToDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if _, err := s.drivers.Get(ctx, carrierID, req.DriverID); err != nil {
		return nil, err
	}

	all, err := s.assignments.ListCompletedForDriver(ctx, carrierID, req.DriverID)
	if err != nil {
		return nil, err
	}

	preview := &Preview{
		DriverID: req.DriverID,
		FromDate: period.Start(),
		ToDate:   period.End(),
	}

	var endpoints []billing.Endpoint
	for _, a := range all {
		if !period.Contains(settledAt(a)) {
			continue
		}
		preview.Assignments = append(preview.Assignments, a)
		preview.TotalPay = preview.TotalPay.Add(a.Pay)
		preview.TotalRouteMiles = preview.TotalRouteMiles.Add(a.RouteDistanceMiles)

		if a.ChargeType == billing.ChargePerMile {
			e := billing.NewEndpoint(a.ID, a.PickupLat, a.PickupLng,
				a.DeliveryLat, a.DeliveryLng, settledAt(a))
			e.StoredEmptyMiles = a.EmptyMiles
			endpoints = append(endpoints, e)
		}
	}

	for _, seg := range billing.Segments(endpoints) {
		preview.Segments = append(preview.Segments, SegmentView{
			FromAssignmentID: seg.FromAssignmentID,
			ToAssignmentID:   seg.ToAssignmentID,
			Miles:            seg.Miles,
		})
		preview.TotalEmptyMiles = preview.TotalEmptyMiles.Add(seg.Miles)
	}
	preview.SegmentCount = len(preview.Segments)
	return preview, nil
}

// settledAt is the timestamp an assignment is attributed to for period
// selection: completion first, then start, then creation.
func settledAt(a assignments.Assignment) time.Time {
	if a.CompletedAt != nil {
		return *a.CompletedAt
	}
	if a.StartedAt != nil {
		return *a.StartedAt
	}
	return a.CreatedAt
}

// Create snapshots the preview into a PENDING driver invoice. Per-assignment
// pay is frozen as line items, so repricing an assignment later leaves the
// invoice untouched.
func (s *Service) Create(ctx context.Context, carrierID string, req CreateDriverInvoiceRequest) (*DriverInvoice, error) {
	preview, err := s.Preview(ctx, carrierID, PreviewRequest{
		DriverID: req.DriverID,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
	if err != nil {
		return nil, err
	}
	if len(preview.Assignments) == 0 && len(req.AdditionalItems) == 0 {
		return nil, fmt.Errorf("%w: nothing to invoice for the period", shared.ErrValidation)
	}

	var items []Item
	total := decimal.Zero
	for _, a := range preview.Assignments {
		id := a.ID
		items = append(items, Item{
			Kind:         ItemAssignment,
			AssignmentID: &id,
			Description:  fmt.Sprintf("Load %s (%s)", a.LoadRefNum, a.ChargeType),
			Amount:       a.Pay,
		})
		total = total.Add(a.Pay)
	}
	for _, extra := range req.AdditionalItems {
		items = append(items, Item{
			Kind:        ItemAdditional,
			Description: extra.Description,
			Amount:      extra.Amount,
		})
		total = total.Add(extra.Amount)
	}

	id, err := s.repo.Create(ctx, carrierID, req.DriverID,
		preview.FromDate, preview.ToDate, total, items)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, carrierID, id)
}

// Get returns one driver invoice with items and payments.
func (s *Service) Get(ctx context.Context, carrierID, id string) (*DriverInvoice, error) {
	di, err := s.repo.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if di == nil {
		return nil, fmt.Errorf("%w: driver invoice %s", shared.ErrNotFound, id)
	}
	return di, nil
}

// List returns a page of driver invoices with the total count.
func (s *Service) List(ctx context.Context, req ListDriverInvoicesRequest) ([]DriverInvoice, int, error) {
	return s.repo.List(ctx, req)
}

var statusRank = map[Status]int{
	StatusPending:       0,
	StatusApproved:      1,
	StatusPartiallyPaid: 2,
	StatusPaid:          3,
}

// UpdateStatus moves the invoice one rung forward through the lifecycle.
// Setting the current status again, moving backward, and skipping rungs are
// all rejected; payment progress past APPROVED is driven by reconcile, not by
// this method. Approval enqueues a driver notification.
func (s *Service) UpdateStatus(ctx context.Context, carrierID, id string, status Status) (*DriverInvoice, error) {
	di, err := s.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if di.Status == status {
		return nil, fmt.Errorf("%w: driver invoice already %s", shared.ErrInvalidTransition, status)
	}
	if statusRank[status] != statusRank[di.Status]+1 {
		return nil, fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, di.Status, status)
	}
	if err := s.repo.SetStatus(ctx, carrierID, id, status); err != nil {
		return nil, err
	}

	if status == StatusApproved && s.notifier != nil {
		if err := s.notifier.DriverInvoiceApproved(ctx, carrierID, id, di.DriverID); err != nil {
			s.logger.Error("enqueue driver invoice notification",
				slog.String("driver_invoice_id", id), slog.Any("error", err))
		}
	}
	return s.Get(ctx, carrierID, id)
}

// AddPayment records a payment to the driver and reconciles the balance.
func (s *Service) AddPayment(ctx context.Context, carrierID, id string, req AddPaymentRequest) (*DriverInvoice, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrValidation)
	}
	di, err := s.Get(ctx, carrierID, id)
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
	if err := s.reconcile(ctx, di); err != nil {
		return nil, err
	}
	return s.Get(ctx, carrierID, id)
}

// DeletePayment removes a payment and reconciles from the remaining list.
func (s *Service) DeletePayment(ctx context.Context, carrierID, id, paymentID string) (*DriverInvoice, error) {
	di, err := s.Get(ctx, carrierID, id)
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
	if err := s.reconcile(ctx, di); err != nil {
		return nil, err
	}
	return s.Get(ctx, carrierID, id)
}

// reconcile recomputes paid and remaining from the full payment list. There
// is no due date on driver invoices, so the status comes from payment
// progress alone; with no payments the pre-payment status (PENDING or
// APPROVED) is preserved.
func (s *Service) reconcile(ctx context.Context, di *DriverInvoice) error {
	payments, err := s.repo.ListPayments(ctx, di.ID)
	if err != nil {
		return err
	}
	bps := make([]billing.Payment, len(payments))
	for i, p := range payments {
		bps[i] = billing.Payment{ID: p.ID, Amount: p.Amount, PaidAt: p.PaidAt}
	}

	bal := billing.Reconcile(di.TotalAmount, bps, time.Time{}, 0, time.Now())

	status := di.Status
	switch {
	case bal.Status == billing.StatusPaid:
		status = StatusPaid
	case bal.Paid.IsPositive():
		status = StatusPartiallyPaid
	case di.Status == StatusPartiallyPaid || di.Status == StatusPaid:
		// All payments removed; the invoice is approved but unpaid again.
		status = StatusApproved
	}
	return s.repo.ApplyBalance(ctx, di.CarrierID, di.ID, bal.Paid, bal.Remaining, status, bal.LastPaymentAt)
}

// GetStats returns count and total per status.
func (s *Service) GetStats(ctx context.Context, carrierID string) ([]StatusCount, error) {
	return s.repo.Stats(ctx, carrierID)
}
