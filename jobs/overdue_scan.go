package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/carrierdesk/carrierdesk/internal/invoices"
)

// OverdueLister is the slice of the invoice store the scan needs.
type OverdueLister interface {
	ListOverdue(ctx context.Context) ([]invoices.Invoice, error)
}

// OverdueEnqueuer submits the per-invoice payment-status notifications.
type OverdueEnqueuer interface {
	EnqueueInvoiceOverdueNotify(ctx context.Context, payload InvoiceOverdueNotifyPayload) (*asynq.TaskInfo, error)
}

// OverdueScanHandler enqueues a payment-status notification for every invoice
// currently past due. Invoice status itself stays derived; the scan only
// produces notifications.
type OverdueScanHandler struct {
	logger   *slog.Logger
	store    OverdueLister
	enqueuer OverdueEnqueuer
}

// NewOverdueScanHandler builds the scan handler.
func NewOverdueScanHandler(logger *slog.Logger, store OverdueLister, enqueuer OverdueEnqueuer) *OverdueScanHandler {
	return &OverdueScanHandler{logger: logger, store: store, enqueuer: enqueuer}
}

// Handle processes TaskInvoiceOverdueScan tasks. An enqueue failure does not
// stop the sweep; the handler errors at the end so the scan retries.
func (h *OverdueScanHandler) Handle(ctx context.Context, _ *asynq.Task) error {
	overdue, err := h.store.ListOverdue(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, inv := range overdue {
		_, err := h.enqueuer.EnqueueInvoiceOverdueNotify(ctx, InvoiceOverdueNotifyPayload{
			CarrierID:    inv.CarrierID,
			InvoiceID:    inv.ID,
			Number:       inv.Number,
			CustomerName: inv.CustomerName,
			Remaining:    inv.RemainingAmount.String(),
			DueDate:      inv.DueDate,
		})
		if err != nil {
			failed++
			h.logger.Error("enqueue overdue notification",
				slog.String("invoice_id", inv.ID),
				slog.String("number", inv.Number),
				slog.Any("error", err))
			continue
		}
		h.logger.Info("invoice overdue",
			slog.String("invoice_id", inv.ID),
			slog.String("number", inv.Number),
			slog.String("customer", inv.CustomerName),
			slog.String("remaining", inv.RemainingAmount.String()),
			slog.Time("due_date", inv.DueDate))
	}

	h.logger.Info("overdue scan complete",
		slog.Int("count", len(overdue)), slog.Int("failed", failed))
	if failed > 0 {
		return fmt.Errorf("overdue scan: %d of %d notifications not enqueued", failed, len(overdue))
	}
	return nil
}
