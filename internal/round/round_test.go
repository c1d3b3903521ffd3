package round_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/openfacture/internal/round"
)

func TestTo(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		scale int32
		want  string
	}{
		{name: "half up at money scale", in: "0.615", scale: round.MoneyScale, want: "0.62"},
		{name: "half away from zero when negative", in: "-0.615", scale: round.MoneyScale, want: "-0.62"},
		{name: "binary-unfriendly value", in: "1.005", scale: round.MoneyScale, want: "1.01"},
		{name: "another binary-unfriendly value", in: "2.675", scale: round.MoneyScale, want: "2.68"},
		{name: "below half", in: "10.004", scale: round.MoneyScale, want: "10"},
		{name: "integer untouched", in: "125", scale: round.MoneyScale, want: "125"},
		{name: "rate scale", in: "1.2345675", scale: round.RateScale, want: "1.234568"},
		{name: "rate scale short value", in: "0.00035", scale: round.RateScale, want: "0.00035"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := round.To(decimal.RequireFromString(tt.in), tt.scale)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestMoneyFromFloat(t *testing.T) {
	// 0.615 has no exact binary representation; the decimal path must still round up.
	got := round.Money(decimal.NewFromFloat(0.615))
	assert.Equal(t, "0.62", round.Fixed(got))
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "125.00", round.Fixed(decimal.NewFromInt(125)))
	assert.Equal(t, "12.50", round.Fixed(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0.62", round.Fixed(round.Money(decimal.RequireFromString("0.615"))))
}
