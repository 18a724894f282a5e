package assignments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/carrierdesk/carrierdesk/internal/billing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestPerMilePayIncludesEmptyMiles(t *testing.T) {
	a := Assignment{
		ChargeType:         billing.ChargePerMile,
		ChargeValue:        dec("2"),
		RouteDistanceMiles: dec("100"),
		EmptyMiles:         dec("20"),
	}
	pay := billing.ComputeAmount(
		billing.ChargeSpec{Type: a.ChargeType, Value: a.ChargeValue},
		a.BillingInput(),
	)
	require.True(t, pay.Equal(dec("240")), "got %s", pay)
}

func TestBilledDistanceOverrideExcludesEmptyMiles(t *testing.T) {
	a := Assignment{
		ChargeType:          billing.ChargePerMile,
		ChargeValue:         dec("2"),
		RouteDistanceMiles:  dec("100"),
		EmptyMiles:          dec("20"),
		BilledDistanceMiles: decPtr("150"),
	}
	pay := billing.ComputeAmount(
		billing.ChargeSpec{Type: a.ChargeType, Value: a.ChargeValue},
		a.BillingInput(),
	)
	require.True(t, pay.Equal(dec("300")), "got %s", pay)
}

func TestPercentageOfLoadUsesBilledRateFirst(t *testing.T) {
	a := Assignment{
		ChargeType:     billing.ChargePercentageOfLoad,
		ChargeValue:    dec("10"),
		LoadRate:       dec("2000"),
		BilledLoadRate: decPtr("1500"),
	}
	pay := billing.ComputeAmount(
		billing.ChargeSpec{Type: a.ChargeType, Value: a.ChargeValue},
		a.BillingInput(),
	)
	require.True(t, pay.Equal(dec("150")), "got %s", pay)
}

func TestStatusTransitions(t *testing.T) {
	require.Equal(t, StatusInProgress, nextStatus[StatusAssigned])
	require.Equal(t, StatusCompleted, nextStatus[StatusInProgress])

	_, ok := nextStatus[StatusCompleted]
	require.False(t, ok, "completed is terminal")
}
