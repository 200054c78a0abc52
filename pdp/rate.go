package pdp

import "github.com/shopspring/decimal"

// =============================================================================
// RATE - PDP per connected hour
// =============================================================================

var secondsPerHour = decimal.NewFromInt(3600)

// ComputeRate derives the normalized productivity rate: activity count per
// connected hour. Pure; same inputs always yield the same decimal.
//
// A nil or zero connected time yields rate 0 — the division is guarded, and
// "promises without connected time" carry no meaningful rate.
//
// The result is not rounded; rounding is a presentation concern applied by
// the matrix builder.
func ComputeRate(activityCount int, connectedSeconds *int64) decimal.Decimal {
	if connectedSeconds == nil || *connectedSeconds == 0 {
		return decimal.Zero
	}
	// count / (seconds/3600) == count*3600 / seconds
	return decimal.NewFromInt(int64(activityCount)).
		Mul(secondsPerHour).
		Div(decimal.NewFromInt(*connectedSeconds))
}
