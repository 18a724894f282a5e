package stats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/carrierdesk/carrierdesk/internal/driverpay"
	"github.com/carrierdesk/carrierdesk/internal/invoices"
	"github.com/carrierdesk/carrierdesk/internal/platform/cache"
)

// Dashboard is the cross-module digest behind the landing page.
type Dashboard struct {
	Invoicing       *invoices.Stats         `json:"invoicing"`
	DriverInvoices  []driverpay.StatusCount `json:"driverInvoices"`
	ActiveDrivers   int                     `json:"activeDrivers"`
	OpenLoads       int                     `json:"openLoads"`
	LegsInProgress  int                     `json:"legsInProgress"`
	PendingExpenses int                     `json:"pendingExpenses"`
}

// InvoiceStats is the slice of the invoicing service the digest needs.
type InvoiceStats interface {
	GetStats(ctx context.Context, carrierID string) (*invoices.Stats, error)
}

// DriverInvoiceStats is the slice of the driver-invoicing service the digest
// needs.
type DriverInvoiceStats interface {
	GetStats(ctx context.Context, carrierID string) ([]driverpay.StatusCount, error)
}

// Service assembles the dashboard digest.
type Service struct {
	repo      *Repository
	invoices  InvoiceStats
	driverpay DriverInvoiceStats
	cache     *cache.Versioned
}

// NewService builds a Service instance.
func NewService(repo *Repository, invoiceStats InvoiceStats, driverInvoiceStats DriverInvoiceStats, digestCache *cache.Versioned) *Service {
	return &Service{repo: repo, invoices: invoiceStats, driverpay: driverInvoiceStats, cache: digestCache}
}

// Dashboard fans the digest queries out concurrently and caches the result
// per carrier.
func (s *Service) Dashboard(ctx context.Context, carrierID string) (*Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", carrierID)
	if err != nil {
		return nil, err
	}

	var digest Dashboard
	err = s.cache.FetchJSON(ctx, key, &digest, func(ctx context.Context) (any, error) {
		return s.build(ctx, carrierID)
	})
	if err != nil {
		return nil, err
	}
	return &digest, nil
}

func (s *Service) build(ctx context.Context, carrierID string) (*Dashboard, error) {
	var digest Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.invoices.GetStats(ctx, carrierID)
		digest.Invoicing = stats
		return err
	})
	g.Go(func() error {
		counts, err := s.driverpay.GetStats(ctx, carrierID)
		digest.DriverInvoices = counts
		return err
	})
	g.Go(func() error {
		n, err := s.repo.ActiveDrivers(ctx, carrierID)
		digest.ActiveDrivers = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.OpenLoads(ctx, carrierID)
		digest.OpenLoads = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.AssignmentsInProgress(ctx, carrierID)
		digest.LegsInProgress = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.PendingExpenses(ctx, carrierID)
		digest.PendingExpenses = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &digest, nil
}
