package loads

import (
	"context"
	"fmt"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Service handles load business logic.
type Service struct {
	repo *Repository
}

// NewService builds a Service instance.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new load with its stops and returns it fully expanded.
func (s *Service) Create(ctx context.Context, carrierID string, req CreateLoadRequest) (*Load, error) {
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", shared.ErrValidation)
	}
	id, err := s.repo.Create(ctx, carrierID, req)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, carrierID, id)
}

// Get returns one load with stops and derived status.
func (s *Service) Get(ctx context.Context, carrierID, id string) (*Load, error) {
	l, err := s.repo.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, fmt.Errorf("%w: load %s", shared.ErrNotFound, id)
	}
	return l, nil
}

// List returns a page of loads with the total count.
func (s *Service) List(ctx context.Context, req ListLoadsRequest) ([]Load, int, error) {
	return s.repo.List(ctx, req)
}

// Update applies a partial update. Only PENDING and COMPLETED may be set
// directly; INVOICED and PAID are driven by invoicing.
func (s *Service) Update(ctx context.Context, carrierID, id string, req UpdateLoadRequest) (*Load, error) {
	if req.Rate != nil && req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", shared.ErrValidation)
	}
	ok, err := s.repo.Update(ctx, carrierID, id, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: load %s", shared.ErrNotFound, id)
	}
	return s.Get(ctx, carrierID, id)
}

// SetStatus moves the stored lifecycle status. Called by the invoicing
// service when a load is invoiced or its invoice settles.
func (s *Service) SetStatus(ctx context.Context, carrierID, id string, status Status) error {
	if status == StatusOverdue {
		return fmt.Errorf("%w: OVERDUE is derived, not stored", shared.ErrInvalidTransition)
	}
	ok, err := s.repo.SetStatus(ctx, carrierID, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: load %s", shared.ErrNotFound, id)
	}
	return nil
}

// Delete removes a load. Invoiced loads must have their invoice deleted first.
func (s *Service) Delete(ctx context.Context, carrierID, id string) error {
	l, err := s.Get(ctx, carrierID, id)
	if err != nil {
		return err
	}
	if l.InvoiceID != nil {
		return fmt.Errorf("%w: load %s has an invoice", shared.ErrInvalidTransition, id)
	}
	deleted, err := s.repo.Delete(ctx, carrierID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: load %s", shared.ErrNotFound, id)
	}
	return nil
}
