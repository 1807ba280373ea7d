// Package odds converts between American odds, decimal odds and implied
// probabilities, and prices multi-leg parlays.
package odds

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return decimal.NewFromInt(int64(american)).Div(hundred).Add(one), nil
	}

	return hundred.Div(decimal.NewFromInt(int64(-american))).Add(one), nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -149
func DecimalToAmerican(dec decimal.Decimal) (int, error) {
	if dec.LessThan(one) {
		return 0, fmt.Errorf("invalid decimal odds: must be >= 1.0")
	}

	f, _ := dec.Float64()
	if f >= 2.0 {
		return int(math.Round((f - 1.0) * 100.0)), nil
	}
	if f == 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: no payout at 1.0")
	}
	return int(math.Round(-100.0 / (f - 1.0))), nil
}

// ImpliedProbability converts American odds to the book's implied
// win probability
// American -150 → 0.60
// American +200 → 0.333
func ImpliedProbability(american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	f, _ := dec.Float64()
	return 1.0 / f, nil
}

// ParlayDecimal multiplies the decimal odds of every leg into the
// combined parlay price
func ParlayDecimal(americanLegs []int) (decimal.Decimal, error) {
	if len(americanLegs) == 0 {
		return decimal.Zero, fmt.Errorf("parlay needs at least one leg")
	}

	combined := one
	for _, leg := range americanLegs {
		dec, err := AmericanToDecimal(leg)
		if err != nil {
			return decimal.Zero, fmt.Errorf("leg odds %d: %w", leg, err)
		}
		combined = combined.Mul(dec)
	}
	return combined, nil
}

// ParlayAmerican prices a parlay and expresses it in American odds
func ParlayAmerican(americanLegs []int) (int, error) {
	combined, err := ParlayDecimal(americanLegs)
	if err != nil {
		return 0, err
	}
	return DecimalToAmerican(combined)
}
