package billing

import "github.com/shopspring/decimal"

// ChargeType enumerates how an assignment's pay is computed.
type ChargeType string

const (
	ChargePerMile          ChargeType = "PER_MILE"
	ChargePerHour          ChargeType = "PER_HOUR"
	ChargeFixedPay         ChargeType = "FIXED_PAY"
	ChargePercentageOfLoad ChargeType = "PERCENTAGE_OF_LOAD"
)

// metersPerMile converts map-provider route distances to the mile contract of
// this package. All distances crossing the billing boundary are miles; meter
// values are converted by callers or by MilesFromMeters.
var metersPerMile = decimal.NewFromFloat(1609.34)

// ChargeSpec is the billing method attached to an assignment.
type ChargeSpec struct {
	Type  ChargeType
	Value decimal.Decimal
}

// AssignmentBilling is the projection of an assignment, its route leg and its
// load that pay computation consumes. The Billed* pointers are dispatcher
// overrides; when set they replace the route-derived figure entirely.
type AssignmentBilling struct {
	BilledDistanceMiles *decimal.Decimal
	RouteDistanceMiles  decimal.Decimal
	BilledDurationHours *decimal.Decimal
	RouteDurationHours  decimal.Decimal
	BilledLoadRate      *decimal.Decimal
	LoadRate            decimal.Decimal
	EmptyMiles          decimal.Decimal
}

// ComputeAmount returns the pay amount for one assignment, rounded to cents.
// It is total: unknown charge types and missing inputs produce 0, never an
// error, so a bad record degrades to an unpaid line instead of failing the
// whole invoice.
func ComputeAmount(spec ChargeSpec, in AssignmentBilling) decimal.Decimal {
	if spec.Value.IsZero() {
		return decimal.Zero
	}

	switch spec.Type {
	case ChargePerMile:
		miles := in.RouteDistanceMiles.Add(in.EmptyMiles)
		if in.BilledDistanceMiles != nil {
			miles = *in.BilledDistanceMiles
		}
		return miles.Mul(spec.Value).Round(2)
	case ChargePerHour:
		hours := in.RouteDurationHours
		if in.BilledDurationHours != nil {
			hours = *in.BilledDurationHours
		}
		return hours.Mul(spec.Value).Round(2)
	case ChargeFixedPay:
		return spec.Value
	case ChargePercentageOfLoad:
		rate := in.LoadRate
		if in.BilledLoadRate != nil {
			rate = *in.BilledLoadRate
		}
		return rate.Mul(spec.Value).Div(decimal.NewFromInt(100)).Round(2)
	}
	return decimal.Zero
}

// MilesFromMeters converts a meter-valued route distance to miles, rounded to
// two decimal places.
func MilesFromMeters(meters decimal.Decimal) decimal.Decimal {
	return meters.Div(metersPerMile).Round(2)
}
