package drivers

import (
	"context"
	"fmt"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Service handles driver business logic.
type Service struct {
	repo *Repository
}

// NewService builds a Service instance.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new driver.
func (s *Service) Create(ctx context.Context, carrierID string, req CreateDriverRequest) (*Driver, error) {
	if req.DefaultChargeValue.IsNegative() {
		return nil, fmt.Errorf("%w: charge value must not be negative", shared.ErrValidation)
	}
	return s.repo.Create(ctx, carrierID, req)
}

// Get returns one driver.
func (s *Service) Get(ctx context.Context, carrierID, id string) (*Driver, error) {
	d, err := s.repo.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: driver %s", shared.ErrNotFound, id)
	}
	return d, nil
}

// List returns a page of drivers with the total count.
func (s *Service) List(ctx context.Context, req ListDriversRequest) ([]Driver, int, error) {
	return s.repo.List(ctx, req)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, carrierID, id string, req UpdateDriverRequest) (*Driver, error) {
	if req.DefaultChargeValue != nil && req.DefaultChargeValue.IsNegative() {
		return nil, fmt.Errorf("%w: charge value must not be negative", shared.ErrValidation)
	}
	d, err := s.repo.Update(ctx, carrierID, id, req)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: driver %s", shared.ErrNotFound, id)
	}
	return d, nil
}

// ListPayments returns all payments made to a driver across driver invoices.
func (s *Service) ListPayments(ctx context.Context, carrierID, driverID string) ([]PaymentRow, error) {
	if _, err := s.Get(ctx, carrierID, driverID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, carrierID, driverID)
}
