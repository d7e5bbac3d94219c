package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/miniapp-backend/internal/lib/pricing"
)

func defaultCalculator() *pricing.Calculator {
	return pricing.New(75, map[int]float64{30: 0.00, 60: 0.05, 90: 0.10})
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		seats int
		want  int
	}{
		{name: "30 days one seat, no discount", days: 30, seats: 1, want: 75},
		{name: "60 days one seat, 5% discount, bankers rounding", days: 60, seats: 1, want: 142},
		{name: "90 days one seat, 10% discount", days: 90, seats: 1, want: 202},
		{name: "zero days", days: 0, seats: 5, want: 0},
		{name: "zero seats", days: 30, seats: 0, want: 0},
		{name: "unlisted days get no discount", days: 45, seats: 1, want: 112},
		{name: "two seats scale linearly before discount", days: 60, seats: 2, want: 285},
	}

	calc := defaultCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Amount(tt.days, tt.seats))
		})
	}
}

func TestAmount_Deterministic(t *testing.T) {
	calc := defaultCalculator()
	first := calc.Amount(60, 3)
	for range 100 {
		assert.Equal(t, first, calc.Amount(60, 3))
	}
}

func TestAmount_NegativeInputsNotRejected(t *testing.T) {
	// Валидации отрицательных значений нет намеренно, сумма просто
	// получается отрицательной.
	calc := defaultCalculator()
	assert.Equal(t, -75, calc.Amount(-30, 1))
}
