package assignments

import (
	"context"
	"fmt"
	"time"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/drivers"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// DriverDirectory supplies driver records for default charge terms.
type DriverDirectory interface {
	Get(ctx context.Context, carrierID, id string) (*drivers.Driver, error)
}

// Service handles assignment business logic.
type Service struct {
	repo    *Repository
	drivers DriverDirectory
}

// NewService builds a Service instance.
func NewService(repo *Repository, drivers DriverDirectory) *Service {
	return &Service{repo: repo, drivers: drivers}
}

// Create assigns a driver to a route leg. Charge terms fall back to the
// driver's defaults when the request leaves them out.
func (s *Service) Create(ctx context.Context, carrierID string, req CreateAssignmentRequest) (*Assignment, error) {
	driver, err := s.drivers.Get(ctx, carrierID, req.DriverID)
	if err != nil {
		return nil, err
	}

	chargeType := driver.DefaultChargeType
	chargeValue := driver.DefaultChargeValue
	if req.ChargeType != nil {
		chargeType = *req.ChargeType
	}
	if req.ChargeValue != nil {
		chargeValue = *req.ChargeValue
	}
	if chargeValue.IsNegative() {
		return nil, fmt.Errorf("%w: charge value must not be negative", shared.ErrValidation)
	}

	id, err := s.repo.Create(ctx, carrierID, chargeType, chargeValue, req)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, carrierID, id)
}

// Get returns one assignment with its computed pay.
func (s *Service) Get(ctx context.Context, carrierID, id string) (*Assignment, error) {
	a, err := s.repo.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: assignment %s", shared.ErrNotFound, id)
	}
	s.computePay(a)
	return a, nil
}

// List returns a page of assignments with pay computed per row.
func (s *Service) List(ctx context.Context, req ListAssignmentsRequest) ([]Assignment, int, error) {
	list, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	for i := range list {
		s.computePay(&list[i])
	}
	return list, total, nil
}

// ListCompletedForDriver returns every completed leg for a driver with pay
// computed. Consumed by driver invoicing.
func (s *Service) ListCompletedForDriver(ctx context.Context, carrierID, driverID string) ([]Assignment, error) {
	list, err := s.repo.ListCompletedForDriver(ctx, carrierID, driverID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.computePay(&list[i])
	}
	return list, nil
}

var nextStatus = map[Status]Status{
	StatusAssigned:   StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// UpdateStatus moves the leg along ASSIGNED -> IN_PROGRESS -> COMPLETED and
// stamps startedAt / completedAt.
func (s *Service) UpdateStatus(ctx context.Context, carrierID, id string, status Status) (*Assignment, error) {
	a, err := s.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if nextStatus[a.Status] != status {
		return nil, fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, a.Status, status)
	}
	if _, err := s.repo.SetStatus(ctx, carrierID, id, status, time.Now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, carrierID, id)
}

// UpdateBilling applies charge-term and billed-override changes.
func (s *Service) UpdateBilling(ctx context.Context, carrierID, id string, req UpdateBillingRequest) (*Assignment, error) {
	if req.ChargeValue != nil && req.ChargeValue.IsNegative() {
		return nil, fmt.Errorf("%w: charge value must not be negative", shared.ErrValidation)
	}
	if req.EmptyMiles != nil && req.EmptyMiles.IsNegative() {
		return nil, fmt.Errorf("%w: empty miles must not be negative", shared.ErrValidation)
	}
	ok, err := s.repo.UpdateBilling(ctx, carrierID, id, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: assignment %s", shared.ErrNotFound, id)
	}
	return s.Get(ctx, carrierID, id)
}

func (s *Service) computePay(a *Assignment) {
	a.Pay = billing.ComputeAmount(
		billing.ChargeSpec{Type: a.ChargeType, Value: a.ChargeValue},
		a.BillingInput(),
	)
}
