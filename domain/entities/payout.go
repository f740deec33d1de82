package entities

import (
	"fmt"
	"math"
)

// BasePayout is the point payout of a single-leg ticket at wager 1
const BasePayout int64 = 100

// DefaultMaxLegs caps how many questions one ticket may combine
const DefaultMaxLegs = 10

// CalculatePayout returns the points awarded for a winning ticket:
// 100 * 2^(legCount-1) * wager. Non-positive inputs and inputs whose payout
// does not fit in an int64 yield 0. Use CheckPayout to tell them apart.
func CalculatePayout(legCount int, wager int64) int64 {
	if CheckPayout(legCount, wager) != nil {
		return 0
	}
	return BasePayout * (int64(1) << (legCount - 1)) * wager
}

// CheckPayout fails with ErrPayoutOverflow when the payout for legCount legs
// at wager cannot be represented
func CheckPayout(legCount int, wager int64) error {
	if legCount < 1 || wager < 1 {
		return nil
	}
	// 2^62 alone is past MaxInt64 / BasePayout
	if legCount > 62 {
		return fmt.Errorf("%w: %d legs", ErrPayoutOverflow, legCount)
	}
	unit := int64(1) << (legCount - 1)
	if unit > math.MaxInt64/BasePayout || wager > math.MaxInt64/(BasePayout*unit) {
		return fmt.Errorf("%w: %d legs at wager %d", ErrPayoutOverflow, legCount, wager)
	}
	return nil
}

// PreviewPayout returns the potential win for a slip that has not been submitted yet
func PreviewPayout(legs []Leg, wager int64) int64 {
	return CalculatePayout(len(legs), wager)
}
