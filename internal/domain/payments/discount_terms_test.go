package payments

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiscountTerms_Valid(t *testing.T) {
	econ := ParseDiscountTerms("2/10 Net 30")

	assert.True(t, econ.Rate.Equal(decimal.NewFromFloat(0.02)))
	require.NotNil(t, econ.DiscountWindowDays)
	assert.Equal(t, 10, *econ.DiscountWindowDays)
	require.NotNil(t, econ.NetDueDays)
	assert.Equal(t, 30, *econ.NetDueDays)
	assert.True(t, econ.HasDiscount())
}

func TestParseDiscountTerms_FractionalRate(t *testing.T) {
	econ := ParseDiscountTerms("1.5/15 Net 45")

	assert.True(t, econ.Rate.Equal(decimal.NewFromFloat(0.015)))
	require.NotNil(t, econ.DiscountWindowDays)
	assert.Equal(t, 15, *econ.DiscountWindowDays)
}

func TestParseDiscountTerms_Malformed(t *testing.T) {
	tests := []struct {
		name string
		term string
	}{
		{"empty string", ""},
		{"garbage", "garbage"},
		{"missing net token", "2/10 30"},
		{"lowercase net token", "2/10 net 30"},
		{"missing slash", "2-10 Net 30"},
		{"non numeric percent", "x/10 Net 30"},
		{"non numeric window", "2/x Net 30"},
		{"non numeric net days", "2/10 Net x"},
		{"missing net days", "2/10 Net "},
		{"double net token", "2/10 Net 30 Net 60"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			econ := ParseDiscountTerms(tc.term)
			assert.True(t, econ.Rate.IsZero(), "rate should degrade to zero")
			assert.Nil(t, econ.DiscountWindowDays)
			assert.Nil(t, econ.NetDueDays)
			assert.False(t, econ.HasDiscount())
		})
	}
}

func TestDiscountEconomics_SavingsRate(t *testing.T) {
	econ := ParseDiscountTerms("2/10 Net 30")
	rate, ok := econ.SavingsRate()
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.002)))
}

func TestDiscountEconomics_SavingsRate_Undefined(t *testing.T) {
	t.Run("no window", func(t *testing.T) {
		econ := ParseDiscountTerms("garbage")
		_, ok := econ.SavingsRate()
		assert.False(t, ok)
	})

	t.Run("zero window", func(t *testing.T) {
		econ := ParseDiscountTerms("2/0 Net 30")
		_, ok := econ.SavingsRate()
		assert.False(t, ok)
	})
}
