package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/loads"
	"github.com/carrierdesk/carrierdesk/internal/platform/cache"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type memStore struct {
	invoices map[string]*Invoice
	payments map[string][]Payment
	loadDir  *memLoads

	// last balance handed to ApplyBalance, for asserting the derived status
	lastBalance billing.Balance
	lastStored  billing.InvoiceStatus
}

func newMemStore() *memStore {
	return &memStore{
		invoices: map[string]*Invoice{},
		payments: map[string][]Payment{},
	}
}

func (m *memStore) Create(_ context.Context, carrierID, loadID string, invoicedAt time.Time, dueNetDays int, total decimal.Decimal, items []ItemInput) (string, error) {
	id := uuid.NewString()
	m.invoices[id] = &Invoice{
		ID:              id,
		CarrierID:       carrierID,
		LoadID:          loadID,
		InvoicedAt:      invoicedAt,
		DueNetDays:      dueNetDays,
		DueDate:         billing.DueDate(invoicedAt, dueNetDays),
		TotalAmount:     total,
		RemainingAmount: total,
		Status:          billing.StatusNotPaid,
	}
	// The repository marks the load INVOICED inside the same transaction.
	if l, ok := m.loadDir.loads[loadID]; ok {
		l.Status = loads.StatusInvoiced
		l.InvoiceID = &id
	}
	return id, nil
}

func (m *memStore) Get(_ context.Context, carrierID, id string) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.CarrierID != carrierID {
		return nil, nil
	}
	cp := *inv
	cp.Payments = m.payments[id]
	return &cp, nil
}

func (m *memStore) List(context.Context, ListInvoicesRequest) ([]Invoice, int, error) {
	return nil, 0, nil
}

func (m *memStore) ListPayments(_ context.Context, invoiceID string) ([]Payment, error) {
	return m.payments[invoiceID], nil
}

func (m *memStore) AddPayment(_ context.Context, invoiceID string, amount decimal.Decimal, paidAt time.Time, note *string) (string, error) {
	id := uuid.NewString()
	m.payments[invoiceID] = append(m.payments[invoiceID], Payment{
		ID: id, InvoiceID: invoiceID, Amount: amount, PaidAt: paidAt, Note: note,
	})
	return id, nil
}

func (m *memStore) DeletePayment(_ context.Context, invoiceID, paymentID string) (bool, error) {
	list := m.payments[invoiceID]
	for i, p := range list {
		if p.ID == paymentID {
			m.payments[invoiceID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ApplyBalance(_ context.Context, _, id string, bal billing.Balance, stored billing.InvoiceStatus) error {
	inv := m.invoices[id]
	inv.PaidAmount = bal.Paid
	inv.RemainingAmount = bal.Remaining
	inv.Status = stored
	inv.Overpaid = bal.Overpaid
	inv.LastPaymentAt = bal.LastPaymentAt
	m.lastBalance = bal
	m.lastStored = stored
	return nil
}

func (m *memStore) Stats(context.Context, string, time.Time, time.Time) (*Stats, error) {
	return &Stats{}, nil
}

type memLoads struct {
	loads          map[string]*loads.Load
	setStatusCalls int
}

func (m *memLoads) Get(_ context.Context, carrierID, id string) (*loads.Load, error) {
	l, ok := m.loads[id]
	if !ok || l.CarrierID != carrierID {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

func (m *memLoads) SetStatus(_ context.Context, _, id string, status loads.Status) error {
	m.setStatusCalls++
	m.loads[id].Status = status
	return nil
}

func newFixture(rate string) (*Service, *memStore, *memLoads, string) {
	loadID := uuid.NewString()
	loadDir := &memLoads{loads: map[string]*loads.Load{
		loadID: {ID: loadID, CarrierID: "carrier-1", Rate: dec(rate), Status: loads.StatusCompleted},
	}}
	store := newMemStore()
	store.loadDir = loadDir
	svc := NewService(store, loadDir, cache.NewVersioned(nil, "invoices", 0))
	return svc, store, loadDir, loadID
}

func TestCreateTotalsLoadRatePlusItems(t *testing.T) {
	svc, _, loadDir, loadID := newFixture("2000")
	ctx := context.Background()

	inv, err := svc.Create(ctx, "carrier-1", CreateInvoiceRequest{
		LoadID:     loadID,
		DueNetDays: 30,
		Items: []ItemInput{
			{Description: "detention", Amount: dec("150")},
			{Description: "lumper", Amount: dec("75.50")},
		},
	})
	require.NoError(t, err)
	require.True(t, inv.TotalAmount.Equal(dec("2225.50")), "got %s", inv.TotalAmount)
	require.Equal(t, billing.StatusNotPaid, inv.Status)
	require.Equal(t, loads.StatusInvoiced, loadDir.loads[loadID].Status)
}

func TestCreateMarksLoadInvoicedWithTheInvoiceWrite(t *testing.T) {
	svc, _, loadDir, loadID := newFixture("1000")
	ctx := context.Background()

	inv, err := svc.Create(ctx, "carrier-1", CreateInvoiceRequest{LoadID: loadID, DueNetDays: 30})
	require.NoError(t, err)
	require.Equal(t, loads.StatusInvoiced, loadDir.loads[loadID].Status)
	require.Equal(t, &inv.ID, loadDir.loads[loadID].InvoiceID)

	// The status change rides the invoice transaction, not a second write
	// that could be lost after the invoice commits.
	require.Equal(t, 0, loadDir.setStatusCalls)
}

func TestCreateRejectsAlreadyInvoicedLoad(t *testing.T) {
	svc, _, loadDir, loadID := newFixture("1000")
	ctx := context.Background()

	invID := "inv-1"
	loadDir.loads[loadID].InvoiceID = &invID

	_, err := svc.Create(ctx, "carrier-1", CreateInvoiceRequest{LoadID: loadID, DueNetDays: 30})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestFullPaymentSettlesInvoiceAndLoad(t *testing.T) {
	svc, _, loadDir, loadID := newFixture("1000")
	ctx := context.Background()

	inv, err := svc.Create(ctx, "carrier-1", CreateInvoiceRequest{LoadID: loadID, DueNetDays: 30})
	require.NoError(t, err)

	inv, err = svc.AddPayment(ctx, "carrier-1", inv.ID, AddPaymentRequest{Amount: dec("1000")})
	require.NoError(t, err)
	require.Equal(t, billing.StatusPaid, inv.Status)
	require.True(t, inv.RemainingAmount.IsZero())
	require.NotNil(t, inv.LastPaymentAt)
	require.Equal(t, loads.StatusPaid, loadDir.loads[loadID].Status)
}

func TestPastDuePartialPaymentReportsOverdue(t *testing.T) {
	svc, store, _, loadID := newFixture("1000")
	ctx := context.Background()

	invoicedAt := time.Now().AddDate(0, 0, -45)
	inv, err := svc.Create(ctx, "carrier-1", CreateInvoiceRequest{
		LoadID: loadID, DueNetDays: 30, InvoicedAt: &invoicedAt,
	})
	require.NoError(t, err)

	inv, err = svc.AddPayment(ctx, "carrier-1", inv.ID, AddPaymentRequest{Amount: dec("400")})
	require.NoError(t, err)

	// Overdue wins over partially paid, but only the payment-progress status
	// is stored.
	require.Equal(t, billing.StatusOverdue, store.lastBalance.Status)
	require.Equal(t, billing.StatusPartiallyPaid, store.lastStored)
	require.True(t, inv.RemainingAmount.Equal(dec("600")))
}

func TestDeletePaymentRecomputesBalance(t *testing.T) {
	svc, store, loadDir, loadID := newFixture("1000")
	ctx := context.Background()

	inv, err := svc.Create(ctx, "carrier-1", CreateInvoiceRequest{LoadID: loadID, DueNetDays: 30})
	require.NoError(t, err)

	inv, err = svc.AddPayment(ctx, "carrier-1", inv.ID, AddPaymentRequest{Amount: dec("600")})
	require.NoError(t, err)
	inv, err = svc.AddPayment(ctx, "carrier-1", inv.ID, AddPaymentRequest{Amount: dec("400")})
	require.NoError(t, err)
	require.Equal(t, billing.StatusPaid, inv.Status)

	pid := store.payments[inv.ID][1].ID
	inv, err = svc.DeletePayment(ctx, "carrier-1", inv.ID, pid)
	require.NoError(t, err)
	require.Equal(t, billing.StatusPartiallyPaid, inv.Status)
	require.True(t, inv.RemainingAmount.Equal(dec("400")))
	require.Equal(t, loads.StatusInvoiced, loadDir.loads[loadID].Status)
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, loadID := newFixture("1000")
	ctx := context.Background()

	inv, err := svc.Create(ctx, "carrier-1", CreateInvoiceRequest{LoadID: loadID, DueNetDays: 30})
	require.NoError(t, err)

	_, err = svc.AddPayment(ctx, "carrier-1", inv.ID, AddPaymentRequest{Amount: dec("0")})
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.AddPayment(ctx, "carrier-1", inv.ID, AddPaymentRequest{Amount: dec("-5")})
	require.ErrorIs(t, err, shared.ErrValidation)
}
