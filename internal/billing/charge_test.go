package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
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

func TestComputeAmountPerMile(t *testing.T) {
	amount := ComputeAmount(
		ChargeSpec{Type: ChargePerMile, Value: dec("2.00")},
		AssignmentBilling{
			RouteDistanceMiles: dec("100"),
			EmptyMiles:         dec("20"),
		},
	)
	require.True(t, amount.Equal(dec("240.00")), "got %s", amount)
}

func TestComputeAmountPerMileBilledOverrideTakesWholeTotal(t *testing.T) {
	amount := ComputeAmount(
		ChargeSpec{Type: ChargePerMile, Value: dec("2.00")},
		AssignmentBilling{
			BilledDistanceMiles: decPtr("90"),
			RouteDistanceMiles:  dec("100"),
			EmptyMiles:          dec("20"),
		},
	)
	// The override replaces route distance and empty miles together.
	require.True(t, amount.Equal(dec("180.00")), "got %s", amount)
}

func TestComputeAmountPerHour(t *testing.T) {
	amount := ComputeAmount(
		ChargeSpec{Type: ChargePerHour, Value: dec("35")},
		AssignmentBilling{RouteDurationHours: dec("8.5")},
	)
	require.True(t, amount.Equal(dec("297.50")), "got %s", amount)

	amount = ComputeAmount(
		ChargeSpec{Type: ChargePerHour, Value: dec("35")},
		AssignmentBilling{
			BilledDurationHours: decPtr("10"),
			RouteDurationHours:  dec("8.5"),
		},
	)
	require.True(t, amount.Equal(dec("350.00")), "got %s", amount)
}

func TestComputeAmountFixedPayIgnoresMileage(t *testing.T) {
	amount := ComputeAmount(
		ChargeSpec{Type: ChargeFixedPay, Value: dec("500")},
		AssignmentBilling{
			RouteDistanceMiles: dec("9999"),
			RouteDurationHours: dec("9999"),
			LoadRate:           dec("9999"),
		},
	)
	require.True(t, amount.Equal(dec("500")), "got %s", amount)
}

func TestComputeAmountPercentageOfLoad(t *testing.T) {
	amount := ComputeAmount(
		ChargeSpec{Type: ChargePercentageOfLoad, Value: dec("10")},
		AssignmentBilling{LoadRate: dec("2000")},
	)
	require.True(t, amount.Equal(dec("200.00")), "got %s", amount)

	amount = ComputeAmount(
		ChargeSpec{Type: ChargePercentageOfLoad, Value: dec("10")},
		AssignmentBilling{
			BilledLoadRate: decPtr("2500"),
			LoadRate:       dec("2000"),
		},
	)
	require.True(t, amount.Equal(dec("250.00")), "got %s", amount)
}

func TestComputeAmountDefaultsToZero(t *testing.T) {
	cases := map[string]struct {
		spec ChargeSpec
		in   AssignmentBilling
	}{
		"unknown charge type": {
			spec: ChargeSpec{Type: ChargeType("BARTER"), Value: dec("100")},
			in:   AssignmentBilling{RouteDistanceMiles: dec("100")},
		},
		"unset charge type": {
			spec: ChargeSpec{Value: dec("100")},
		},
		"zero charge value": {
			spec: ChargeSpec{Type: ChargePerMile},
			in:   AssignmentBilling{RouteDistanceMiles: dec("100")},
		},
		"empty input": {
			spec: ChargeSpec{Type: ChargePerMile, Value: dec("2")},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.True(t, ComputeAmount(tc.spec, tc.in).IsZero())
		})
	}
}

func TestComputeAmountRoundsToCents(t *testing.T) {
	amount := ComputeAmount(
		ChargeSpec{Type: ChargePerMile, Value: dec("0.555")},
		AssignmentBilling{RouteDistanceMiles: dec("100.1")},
	)
	require.True(t, amount.Equal(dec("55.56")), "got %s", amount)
}

func TestMilesFromMeters(t *testing.T) {
	miles := MilesFromMeters(dec("160934"))
	require.True(t, miles.Equal(dec("100")), "got %s", miles)

	miles = MilesFromMeters(dec("50000"))
	require.True(t, miles.Equal(dec("31.07")), "got %s", miles)
}
