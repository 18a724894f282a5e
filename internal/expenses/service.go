package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

// Service handles expense business logic. Approval decisions are written to
// the audit log.
type Service struct {
	logger *slog.Logger
	repo   *Repository
	audit  *shared.AuditLogger
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, repo *Repository, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, repo: repo, audit: audit}
}

// Create books an expense in PENDING state.
func (s *Service) Create(ctx context.Context, carrierID string, req CreateExpenseRequest) (*Expense, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", shared.ErrValidation)
	}
	return s.repo.Create(ctx, carrierID, req)
}

// Get returns one expense.
func (s *Service) Get(ctx context.Context, carrierID, id string) (*Expense, error) {
	e, err := s.repo.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: expense %s", shared.ErrNotFound, id)
	}
	return e, nil
}

// List returns a page of expenses. From/to dates use the same local-calendar
// boundaries as invoicing periods.
func (s *Service) List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error) {
	var from, to *time.Time
	if req.FromDate != "" && req.ToDate != "" {
		period, err := billing.ParsePeriod(req.FromDate, req.ToDate)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", shared.ErrValidation, err)
		}
		start, end := period.Start(), period.End()
		from, to = &start, &end
	}
	return s.repo.List(ctx, req, from, to)
}

// UpdateStatus records an approval decision. PENDING is the only state a
// decision applies to.
func (s *Service) UpdateStatus(ctx context.Context, carrierID, id string, status Status) (*Expense, error) {
	e, err := s.Get(ctx, carrierID, id)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusPending {
		return nil, fmt.Errorf("%w: expense already %s", shared.ErrInvalidTransition, e.Status)
	}
	if _, err := s.repo.SetStatus(ctx, carrierID, id, status); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, carrierID, "expense.status", id, map[string]any{"status": status})
	return s.Get(ctx, carrierID, id)
}

// BulkUpdateStatus applies one decision to many expenses and returns how many
// rows changed.
func (s *Service) BulkUpdateStatus(ctx context.Context, carrierID string, req BulkStatusRequest) (int64, error) {
	updated, err := s.repo.BulkSetStatus(ctx, carrierID, req.IDs, req.Status)
	if err != nil {
		return 0, err
	}
	s.recordAudit(ctx, carrierID, "expense.bulk_status", fmt.Sprintf("%d rows", updated),
		map[string]any{"status": req.Status, "requested": len(req.IDs), "updated": updated})
	return updated, nil
}

// BulkDelete removes many expenses and returns how many rows were deleted.
func (s *Service) BulkDelete(ctx context.Context, carrierID string, req BulkDeleteRequest) (int64, error) {
	deleted, err := s.repo.BulkDelete(ctx, carrierID, req.IDs)
	if err != nil {
		return 0, err
	}
	s.recordAudit(ctx, carrierID, "expense.bulk_delete", fmt.Sprintf("%d rows", deleted),
		map[string]any{"requested": len(req.IDs), "deleted": deleted})
	return deleted, nil
}

// Categories lists the distinct categories in use.
func (s *Service) Categories(ctx context.Context, carrierID string) ([]string, error) {
	return s.repo.Categories(ctx, carrierID)
}

func (s *Service) recordAudit(ctx context.Context, carrierID, action, entityID string, meta map[string]any) {
	err := s.audit.Record(ctx, shared.AuditLog{
		CarrierID: carrierID,
		Action:    action,
		Entity:    "expense",
		EntityID:  entityID,
		Meta:      meta,
	})
	if err != nil {
		s.logger.Error("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
