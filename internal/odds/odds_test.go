package odds

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Positive odds +100", 100, 2.0},
		{"Positive odds +150", 150, 2.5},
		{"Positive odds +200", 200, 3.0},
		{"Negative odds -110", -110, 1.909090909},
		{"Negative odds -150", -150, 1.666666667},
		{"Negative odds -200", -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			f, _ := got.Float64()
			if math.Abs(f-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%d) = %f, want %f", tt.american, f, tt.want)
			}
		})
	}
}

func TestAmericanToDecimalZero(t *testing.T) {
	if _, err := AmericanToDecimal(0); err == nil {
		t.Error("expected error for American odds 0, got nil")
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		want    int
	}{
		{"Even odds 2.0", 2.0, 100},
		{"Underdog 2.5", 2.5, 150},
		{"Underdog 3.0", 3.0, 200},
		{"Favorite 1.909090909", 1.909090909, -110},
		{"Favorite 1.5", 1.5, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalToAmerican(decimalFromFloat(tt.decimal))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecimalToAmerican(%f) = %d, want %d", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestDecimalToAmericanInvalid(t *testing.T) {
	if _, err := DecimalToAmerican(decimalFromFloat(0.95)); err == nil {
		t.Error("expected error for decimal odds below 1.0, got nil")
	}
	if _, err := DecimalToAmerican(decimalFromFloat(1.0)); err == nil {
		t.Error("expected error for decimal odds exactly 1.0, got nil")
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Favorite -150", -150, 0.6},
		{"Even +100", 100, 0.5},
		{"Underdog +200", 200, 0.333333},
		{"Standard juice -110", -110, 0.5238095},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImpliedProbability(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("ImpliedProbability(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestParlayDecimal(t *testing.T) {
	// Two legs at -110 pay roughly 3.645
	combined, err := ParlayDecimal([]int{-110, -110})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, _ := combined.Float64()
	if math.Abs(f-3.6446) > 0.001 {
		t.Errorf("ParlayDecimal([-110,-110]) = %f, want ~3.6446", f)
	}
}

func TestParlayDecimalSixLegs(t *testing.T) {
	legs := []int{-110, -115, -105, -110, -120, -110}
	combined, err := ParlayDecimal(legs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 1.0
	for _, leg := range legs {
		dec, _ := AmericanToDecimal(leg)
		f, _ := dec.Float64()
		want *= f
	}

	f, _ := combined.Float64()
	if math.Abs(f-want) > 0.0001 {
		t.Errorf("ParlayDecimal(6 legs) = %f, want %f", f, want)
	}
}

func TestParlayDecimalErrors(t *testing.T) {
	if _, err := ParlayDecimal(nil); err == nil {
		t.Error("expected error for empty parlay, got nil")
	}
	if _, err := ParlayDecimal([]int{-110, 0}); err == nil {
		t.Error("expected error for zero leg odds, got nil")
	}
}

func TestParlayAmerican(t *testing.T) {
	got, err := ParlayAmerican([]int{-110, -110})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3.6446 decimal → +264
	if got != 264 && got != 265 {
		t.Errorf("ParlayAmerican([-110,-110]) = %d, want ~+264", got)
	}
}
