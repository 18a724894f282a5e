package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/carrierdesk/carrierdesk/internal/invoices"
)

type staticLister struct {
	list []invoices.Invoice
	err  error
}

func (s *staticLister) ListOverdue(context.Context) ([]invoices.Invoice, error) {
	return s.list, s.err
}

type recordingEnqueuer struct {
	payloads []InvoiceOverdueNotifyPayload
	err      error
}

func (r *recordingEnqueuer) EnqueueInvoiceOverdueNotify(_ context.Context, p InvoiceOverdueNotifyPayload) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.payloads = append(r.payloads, p)
	return &asynq.TaskInfo{}, nil
}

func overdueInvoice(id, number, remaining string) invoices.Invoice {
	return invoices.Invoice{
		ID:              id,
		CarrierID:       "carrier-1",
		Number:          number,
		CustomerName:    "Acme Freight",
		RemainingAmount: decimal.RequireFromString(remaining),
		DueDate:         time.Now().AddDate(0, 0, -10),
	}
}

func newScanFixture(lister *staticLister, enq *recordingEnqueuer) *OverdueScanHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOverdueScanHandler(logger, lister, enq)
}

func TestOverdueScanEnqueuesPerInvoice(t *testing.T) {
	lister := &staticLister{list: []invoices.Invoice{
		overdueInvoice("inv-1", "INV-000001", "600"),
		overdueInvoice("inv-2", "INV-000002", "125.50"),
	}}
	enq := &recordingEnqueuer{}
	h := newScanFixture(lister, enq)

	require.NoError(t, h.Handle(context.Background(), NewInvoiceOverdueScanTask()))
	require.Len(t, enq.payloads, 2)
	require.Equal(t, "inv-1", enq.payloads[0].InvoiceID)
	require.Equal(t, "600", enq.payloads[0].Remaining)
	require.Equal(t, "INV-000002", enq.payloads[1].Number)
	require.Equal(t, "carrier-1", enq.payloads[1].CarrierID)
}

func TestOverdueScanErrsWhenEnqueueFails(t *testing.T) {
	lister := &staticLister{list: []invoices.Invoice{
		overdueInvoice("inv-1", "INV-000001", "600"),
	}}
	enq := &recordingEnqueuer{err: errors.New("redis down")}
	h := newScanFixture(lister, enq)

	require.Error(t, h.Handle(context.Background(), NewInvoiceOverdueScanTask()))
	require.Empty(t, enq.payloads)
}

func TestOverdueScanPropagatesListerError(t *testing.T) {
	lister := &staticLister{err: errors.New("db down")}
	h := newScanFixture(lister, &recordingEnqueuer{})

	require.Error(t, h.Handle(context.Background(), NewInvoiceOverdueScanTask()))
}
