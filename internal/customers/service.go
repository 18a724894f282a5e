package customers

import (
	"context"
	"fmt"

	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Service handles customer business logic.
type Service struct {
	repo *Repository
}

// NewService builds a Service instance.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new customer for the carrier.
func (s *Service) Create(ctx context.Context, carrierID string, req CreateCustomerRequest) (*Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: customer name required", shared.ErrValidation)
	}
	return s.repo.Create(ctx, carrierID, req)
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, carrierID, id string) (*Customer, error) {
	c, err := s.repo.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
	}
	return c, nil
}

// List returns a page of customers with the total count.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	return s.repo.List(ctx, req)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, carrierID, id string, req UpdateCustomerRequest) (*Customer, error) {
	c, err := s.repo.Update(ctx, carrierID, id, req)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
	}
	return c, nil
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, carrierID, id string) error {
	deleted, err := s.repo.Delete(ctx, carrierID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
	}
	return nil
}
