package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReconcileFullPayment(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 15)

	balance := Reconcile(dec("1000"), []Payment{
		{ID: "p1", Amount: dec("400"), PaidAt: now.AddDate(0, 0, -2)},
		{ID: "p2", Amount: dec("600"), PaidAt: now.AddDate(0, 0, -1)},
	}, due, 15, now)

	require.True(t, balance.Paid.Equal(dec("1000")))
	require.True(t, balance.Remaining.IsZero())
	require.Equal(t, StatusPaid, balance.Status)
	require.False(t, balance.Overpaid)
	require.NotNil(t, balance.LastPaymentAt)
	require.True(t, balance.LastPaymentAt.Equal(now.AddDate(0, 0, -1)))
}

func TestReconcileOverdueBeatsPartiallyPaid(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	balance := Reconcile(dec("1000"), []Payment{
		{ID: "p1", Amount: dec("300"), PaidAt: now},
	}, yesterday, 15, now)

	require.Equal(t, StatusOverdue, balance.Status)
	require.True(t, balance.Remaining.Equal(dec("700")))
}

func TestReconcileNoNetTermsNeverOverdue(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	balance := Reconcile(dec("1000"), []Payment{
		{ID: "p1", Amount: dec("300"), PaidAt: now},
	}, yesterday, 0, now)
	require.Equal(t, StatusPartiallyPaid, balance.Status)

	balance = Reconcile(dec("1000"), nil, yesterday, 0, now)
	require.Equal(t, StatusNotPaid, balance.Status)
	require.Nil(t, balance.LastPaymentAt)
}

func TestReconcilePaidBeatsOverdue(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	balance := Reconcile(dec("1000"), []Payment{
		{ID: "p1", Amount: dec("1000"), PaidAt: now},
	}, yesterday, 15, now)
	require.Equal(t, StatusPaid, balance.Status)
}

func TestReconcileOverpaymentClampsRemaining(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	balance := Reconcile(dec("1000"), []Payment{
		{ID: "p1", Amount: dec("1200"), PaidAt: now},
	}, now.AddDate(0, 0, 15), 15, now)

	require.True(t, balance.Remaining.IsZero())
	require.True(t, balance.Overpaid)
	require.Equal(t, StatusPaid, balance.Status)
}

func TestReconcileIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 30)
	payments := []Payment{
		{ID: "p1", Amount: dec("250.50"), PaidAt: now.AddDate(0, 0, -3)},
		{ID: "p2", Amount: dec("100.25"), PaidAt: now.AddDate(0, 0, -1)},
	}

	first := Reconcile(dec("900"), payments, due, 30, now)
	second := Reconcile(dec("900"), payments, due, 30, now)

	require.True(t, first.Paid.Equal(second.Paid))
	require.True(t, first.Remaining.Equal(second.Remaining))
	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.Overpaid, second.Overpaid)
	require.True(t, first.LastPaymentAt.Equal(*second.LastPaymentAt))
}

func TestReconcileDeletionRecomputesFromRemainingPayments(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, 30)
	payments := []Payment{
		{ID: "p1", Amount: dec("400"), PaidAt: now.AddDate(0, 0, -5)},
		{ID: "p2", Amount: dec("600"), PaidAt: now.AddDate(0, 0, -1)},
	}

	full := Reconcile(dec("1000"), payments, due, 30, now)
	require.Equal(t, StatusPaid, full.Status)

	// Deleting the newest payment rolls LastPaymentAt back to the survivor.
	afterDelete := Reconcile(dec("1000"), payments[:1], due, 30, now)
	require.Equal(t, StatusPartiallyPaid, afterDelete.Status)
	require.True(t, afterDelete.Remaining.Equal(dec("600")))
	require.True(t, afterDelete.LastPaymentAt.Equal(now.AddDate(0, 0, -5)))

	afterDeleteAll := Reconcile(dec("1000"), nil, due, 30, now)
	require.Equal(t, StatusNotPaid, afterDeleteAll.Status)
	require.Nil(t, afterDeleteAll.LastPaymentAt)
}

func TestDueDate(t *testing.T) {
	invoicedAt := time.Date(2024, 2, 27, 10, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC), DueDate(invoicedAt, 15))
	require.Equal(t, invoicedAt, DueDate(invoicedAt, 0))
}
