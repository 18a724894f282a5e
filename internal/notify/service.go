package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/carrierdesk/carrierdesk/jobs"
)

// Enqueuer submits notification tasks to the queue.
type Enqueuer interface {
	EnqueueDriverInvoiceNotify(ctx context.Context, payload jobs.DriverInvoiceNotifyPayload) (*asynq.TaskInfo, error)
}

// Service enqueues notification jobs from the API process and handles them
// in the worker.
type Service struct {
	logger    *slog.Logger
	enqueuer  Enqueuer
	targeting *Targeting
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, enqueuer Enqueuer, targeting *Targeting) *Service {
	return &Service{logger: logger, enqueuer: enqueuer, targeting: targeting}
}

// DriverInvoiceApproved enqueues the approval notification.
func (s *Service) DriverInvoiceApproved(ctx context.Context, carrierID, driverInvoiceID, driverID string) error {
	_, err := s.enqueuer.EnqueueDriverInvoiceNotify(ctx, jobs.DriverInvoiceNotifyPayload{
		CarrierID:       carrierID,
		DriverInvoiceID: driverInvoiceID,
		DriverID:        driverID,
	})
	return err
}

// HandleDriverInvoiceNotify processes the approval notification in the
// worker. Delivery is a logged dispatch; SMTP and SMS transports hang off
// this point.
func (s *Service) HandleDriverInvoiceNotify(ctx context.Context, t *asynq.Task) error {
	var payload jobs.DriverInvoiceNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	recipients, err := s.targeting.EligibleRecipients(ctx, payload.CarrierID)
	if err != nil {
		return err
	}

	for _, rec := range recipients {
		if rec.DriverID != payload.DriverID {
			continue
		}
		s.logger.Info("driver invoice notification",
			slog.String("driver_invoice_id", payload.DriverInvoiceID),
			slog.String("driver", rec.Name),
			slog.Any("email", rec.Email),
			slog.Any("phone", rec.Phone))
		return nil
	}

	s.logger.Warn("driver not eligible for notification",
		slog.String("driver_invoice_id", payload.DriverInvoiceID),
		slog.String("driver_id", payload.DriverID))
	return nil
}

// HandleInvoiceOverdueNotify processes the past-due payment-status
// notification enqueued by the overdue scan. Delivery is a logged dispatch;
// SMTP and SMS transports hang off this point.
func (s *Service) HandleInvoiceOverdueNotify(ctx context.Context, t *asynq.Task) error {
	var payload jobs.InvoiceOverdueNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	s.logger.Info("invoice overdue notification",
		slog.String("invoice_id", payload.InvoiceID),
		slog.String("number", payload.Number),
		slog.String("customer", payload.CustomerName),
		slog.String("remaining", payload.Remaining),
		slog.Time("due_date", payload.DueDate))
	return nil
}
