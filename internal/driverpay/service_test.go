package driverpay

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/carrierdesk/carrierdesk/internal/assignments"
	"github.com/carrierdesk/carrierdesk/internal/billing"
	"github.com/carrierdesk/carrierdesk/internal/drivers"
	"github.com/carrierdesk/carrierdesk/internal/shared"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func f64(v float64) *float64 { return &v }

func tptr(t time.Time) *time.Time { return &t }

type memStore struct {
	invoices map[string]*DriverInvoice
	items    map[string][]Item
	payments map[string][]Payment
}

func newMemStore() *memStore {
	return &memStore{
		invoices: map[string]*DriverInvoice{},
		items:    map[string][]Item{},
		payments: map[string][]Payment{},
	}
}

func (m *memStore) Create(_ context.Context, carrierID, driverID string, from, to time.Time, total decimal.Decimal, items []Item) (string, error) {
	id := uuid.NewString()
	m.invoices[id] = &DriverInvoice{
		ID: id, CarrierID: carrierID, DriverID: driverID,
		FromDate: from, ToDate: to,
		TotalAmount: total, RemainingAmount: total,
		Status: StatusPending,
	}
	m.items[id] = items
	return id, nil
}

func (m *memStore) Get(_ context.Context, carrierID, id string) (*DriverInvoice, error) {
	di, ok := m.invoices[id]
	if !ok || di.CarrierID != carrierID {
		return nil, nil
	}
	cp := *di
	cp.Items = m.items[id]
	cp.Payments = m.payments[id]
	return &cp, nil
}

func (m *memStore) List(context.Context, ListDriverInvoicesRequest) ([]DriverInvoice, int, error) {
	return nil, 0, nil
}

func (m *memStore) ListPayments(_ context.Context, id string) ([]Payment, error) {
	return m.payments[id], nil
}

func (m *memStore) AddPayment(_ context.Context, id string, amount decimal.Decimal, paidAt time.Time, note *string) (string, error) {
	pid := uuid.NewString()
	m.payments[id] = append(m.payments[id], Payment{ID: pid, DriverInvoiceID: id, Amount: amount, PaidAt: paidAt, Note: note})
	return pid, nil
}

func (m *memStore) DeletePayment(_ context.Context, id, paymentID string) (bool, error) {
	list := m.payments[id]
	for i, p := range list {
		if p.ID == paymentID {
			m.payments[id] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SetStatus(_ context.Context, _, id string, status Status) error {
	m.invoices[id].Status = status
	return nil
}

func (m *memStore) ApplyBalance(_ context.Context, _, id string, paid, remaining decimal.Decimal, status Status, lastPaymentAt *time.Time) error {
	di := m.invoices[id]
	di.PaidAmount = paid
	di.RemainingAmount = remaining
	di.Status = status
	di.LastPaymentAt = lastPaymentAt
	return nil
}

func (m *memStore) Stats(context.Context, string) ([]StatusCount, error) {
	return nil, nil
}

type memAssignments struct {
	list []assignments.Assignment
}

func (m *memAssignments) ListCompletedForDriver(context.Context, string, string) ([]assignments.Assignment, error) {
	return m.list, nil
}

type memDrivers struct{}

func (memDrivers) Get(_ context.Context, _, id string) (*drivers.Driver, error) {
	return &drivers.Driver{ID: id, Name: "Pat"}, nil
}

type recordingNotifier struct {
	approved []string
}

func (n *recordingNotifier) DriverInvoiceApproved(_ context.Context, _, driverInvoiceID, _ string) error {
	n.approved = append(n.approved, driverInvoiceID)
	return nil
}

func day(d string) time.Time {
	ts, err := time.ParseInLocation("2006-01-02 15:04", d, time.Local)
	if err != nil {
		panic(err)
	}
	return ts
}

func perMileLeg(id, ref string, completed time.Time, routeMiles, empty string, pickup, delivery [2]float64) assignments.Assignment {
	a := assignments.Assignment{
		ID:                 id,
		LoadRefNum:         ref,
		ChargeType:         billing.ChargePerMile,
		ChargeValue:        dec("2"),
		RouteDistanceMiles: dec(routeMiles),
		EmptyMiles:         dec(empty),
		Status:             assignments.StatusCompleted,
		CompletedAt:        tptr(completed),
		CreatedAt:          completed.Add(-24 * time.Hour),
		PickupLat:          f64(pickup[0]),
		PickupLng:          f64(pickup[1]),
		DeliveryLat:        f64(delivery[0]),
		DeliveryLng:        f64(delivery[1]),
	}
	a.Pay = billing.ComputeAmount(
		billing.ChargeSpec{Type: a.ChargeType, Value: a.ChargeValue},
		a.BillingInput(),
	)
	return a
}

func newFixture(list []assignments.Assignment) (*Service, *memStore, *recordingNotifier) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, store, &memAssignments{list: list}, memDrivers{}, notifier)
	return svc, store, notifier
}

func TestPreviewFiltersByPeriodAndComputesSegments(t *testing.T) {
	denver := [2]float64{39.7392, -104.9903}
	cheyenne := [2]float64{41.14, -104.8202}
	casper := [2]float64{42.8501, -106.3252}

	legs := []assignments.Assignment{
		perMileLeg("a1", "L-100", day("2026-03-02 10:00"), "100", "0", denver, cheyenne),
		perMileLeg("a2", "L-101", day("2026-03-05 09:00"), "120", "0", casper, denver),
		// Outside the requested period.
		perMileLeg("a3", "L-102", day("2026-04-01 08:00"), "80", "0", denver, cheyenne),
	}

	svc, _, _ := newFixture(legs)
	preview, err := svc.Preview(context.Background(), "carrier-1", PreviewRequest{
		DriverID: uuid.NewString(), FromDate: "2026-03-01", ToDate: "2026-03-31",
	})
	require.NoError(t, err)

	require.Len(t, preview.Assignments, 2)
	require.True(t, preview.TotalPay.Equal(dec("440")), "got %s", preview.TotalPay)
	require.True(t, preview.TotalRouteMiles.Equal(dec("220")))

	// One deadhead: Cheyenne delivery to Casper pickup.
	require.Equal(t, 1, preview.SegmentCount)
	require.Equal(t, "a1", preview.Segments[0].FromAssignmentID)
	require.Equal(t, "a2", preview.Segments[0].ToAssignmentID)
	require.InDelta(t, 130, preview.Segments[0].Miles.InexactFloat64(), 15)
}

func TestPreviewUsesStoredEmptyMilesOverride(t *testing.T) {
	denver := [2]float64{39.7392, -104.9903}
	cheyenne := [2]float64{41.14, -104.8202}

	legs := []assignments.Assignment{
		perMileLeg("a1", "L-100", day("2026-03-02 10:00"), "100", "55", denver, cheyenne),
		perMileLeg("a2", "L-101", day("2026-03-05 09:00"), "120", "0", denver, cheyenne),
	}

	svc, _, _ := newFixture(legs)
	preview, err := svc.Preview(context.Background(), "carrier-1", PreviewRequest{
		DriverID: uuid.NewString(), FromDate: "2026-03-01", ToDate: "2026-03-31",
	})
	require.NoError(t, err)
	require.Equal(t, 1, preview.SegmentCount)
	require.True(t, preview.Segments[0].Miles.Equal(dec("55")))
}

func TestCreateSnapshotsLineItems(t *testing.T) {
	denver := [2]float64{39.7392, -104.9903}
	cheyenne := [2]float64{41.14, -104.8202}

	legs := []assignments.Assignment{
		perMileLeg("a1", "L-100", day("2026-03-02 10:00"), "100", "0", denver, cheyenne),
	}

	svc, store, _ := newFixture(legs)
	di, err := svc.Create(context.Background(), "carrier-1", CreateDriverInvoiceRequest{
		DriverID: uuid.NewString(), FromDate: "2026-03-01", ToDate: "2026-03-31",
		AdditionalItems: []AdditionalItemInput{{Description: "fuel advance", Amount: dec("-50")}},
	})
	require.NoError(t, err)

	require.Equal(t, StatusPending, di.Status)
	require.True(t, di.TotalAmount.Equal(dec("150")), "got %s", di.TotalAmount)
	require.Len(t, store.items[di.ID], 2)
	require.Equal(t, ItemAssignment, store.items[di.ID][0].Kind)
	require.Equal(t, ItemAdditional, store.items[di.ID][1].Kind)
}

func TestCreateRejectsEmptyPeriod(t *testing.T) {
	svc, _, _ := newFixture(nil)
	_, err := svc.Create(context.Background(), "carrier-1", CreateDriverInvoiceRequest{
		DriverID: uuid.NewString(), FromDate: "2026-03-01", ToDate: "2026-03-31",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateStatusRejectsSameAndBackward(t *testing.T) {
	denver := [2]float64{39.7392, -104.9903}
	cheyenne := [2]float64{41.14, -104.8202}
	legs := []assignments.Assignment{
		perMileLeg("a1", "L-100", day("2026-03-02 10:00"), "100", "0", denver, cheyenne),
	}

	svc, _, notifier := newFixture(legs)
	ctx := context.Background()
	di, err := svc.Create(ctx, "carrier-1", CreateDriverInvoiceRequest{
		DriverID: uuid.NewString(), FromDate: "2026-03-01", ToDate: "2026-03-31",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, "carrier-1", di.ID, StatusPending)
	require.ErrorIs(t, err, shared.ErrInvalidTransition)

	di, err = svc.UpdateStatus(ctx, "carrier-1", di.ID, StatusApproved)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, di.Status)
	require.Equal(t, []string{di.ID}, notifier.approved)

	_, err = svc.UpdateStatus(ctx, "carrier-1", di.ID, StatusPending)
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestUpdateStatusRejectsSkippedRungs(t *testing.T) {
	denver := [2]float64{39.7392, -104.9903}
	cheyenne := [2]float64{41.14, -104.8202}
	legs := []assignments.Assignment{
		perMileLeg("a1", "L-100", day("2026-03-02 10:00"), "100", "0", denver, cheyenne),
	}

	svc, _, _ := newFixture(legs)
	ctx := context.Background()
	di, err := svc.Create(ctx, "carrier-1", CreateDriverInvoiceRequest{
		DriverID: uuid.NewString(), FromDate: "2026-03-01", ToDate: "2026-03-31",
	})
	require.NoError(t, err)

	// A PENDING invoice with no payments cannot jump straight to PAID or
	// PARTIALLY_PAID.
	_, err = svc.UpdateStatus(ctx, "carrier-1", di.ID, StatusPaid)
	require.ErrorIs(t, err, shared.ErrInvalidTransition)
	_, err = svc.UpdateStatus(ctx, "carrier-1", di.ID, StatusPartiallyPaid)
	require.ErrorIs(t, err, shared.ErrInvalidTransition)

	di, err = svc.UpdateStatus(ctx, "carrier-1", di.ID, StatusApproved)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, di.Status)
}

func TestPaymentsDriveStatusAndWindBack(t *testing.T) {
	denver := [2]float64{39.7392, -104.9903}
	cheyenne := [2]float64{41.14, -104.8202}
	legs := []assignments.Assignment{
		perMileLeg("a1", "L-100", day("2026-03-02 10:00"), "100", "0", denver, cheyenne),
	}

	svc, store, _ := newFixture(legs)
	ctx := context.Background()
	di, err := svc.Create(ctx, "carrier-1", CreateDriverInvoiceRequest{
		DriverID: uuid.NewString(), FromDate: "2026-03-01", ToDate: "2026-03-31",
	})
	require.NoError(t, err)

	di, err = svc.UpdateStatus(ctx, "carrier-1", di.ID, StatusApproved)
	require.NoError(t, err)

	di, err = svc.AddPayment(ctx, "carrier-1", di.ID, AddPaymentRequest{Amount: dec("80")})
	require.NoError(t, err)
	require.Equal(t, StatusPartiallyPaid, di.Status)

	di, err = svc.AddPayment(ctx, "carrier-1", di.ID, AddPaymentRequest{Amount: dec("120")})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, di.Status)
	require.True(t, di.RemainingAmount.IsZero())

	for _, p := range store.payments[di.ID] {
		di, err = svc.DeletePayment(ctx, "carrier-1", di.ID, p.ID)
		require.NoError(t, err)
	}
	require.Equal(t, StatusApproved, di.Status)
	require.True(t, di.RemainingAmount.Equal(di.TotalAmount))
}
