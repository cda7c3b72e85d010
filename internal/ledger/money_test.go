package ledger_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonvc/tradebook/internal/ledger"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want ledger.Money
	}{
		{"15000.50", 1500050},
		{"10", 1000},
		{"0.01", 1},
		{" 7.5 ", 750},
		{"-3.25", -325},
	}
	for _, tc := range cases {
		got, err := ledger.ParseMoney(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ledger.ParseMoney("1.005")
	assert.Error(t, err)
	_, err = ledger.ParseMoney("abc")
	assert.Error(t, err)
}

func TestParseMoneyRange(t *testing.T) {
	got, err := ledger.ParseMoney("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, ledger.Money(math.MaxInt64), got)

	_, err = ledger.ParseMoney("92233720368547758.08")
	assert.ErrorContains(t, err, "out of range")
	_, err = ledger.ParseMoney("-92233720368547758.09")
	assert.ErrorContains(t, err, "out of range")
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "15000.50", ledger.Money(1500050).String())
	assert.Equal(t, "0.00", ledger.Money(0).String())
	assert.Equal(t, "-0.05", ledger.Money(-5).String())
}

func TestMulQuantityRoundsToMinorUnit(t *testing.T) {
	price := ledger.Money(33333) // 333.33
	got := price.MulQuantity(decimal.RequireFromString("0.5"))
	assert.Equal(t, ledger.Money(16667), got)
}

func TestMulQuantityCheckedRejectsOverflow(t *testing.T) {
	price := ledger.Money(25000)
	_, ok := price.MulQuantityChecked(decimal.RequireFromString("1000000000000000"))
	assert.False(t, ok)

	got, ok := price.MulQuantityChecked(decimal.NewFromInt(100))
	assert.True(t, ok)
	assert.Equal(t, ledger.Money(2500000), got)
}

func TestPercentageOfZeroIsZero(t *testing.T) {
	assert.True(t, ledger.Percentage(100, 0).IsZero())
	assert.True(t, decimal.RequireFromString("16.67").Equal(ledger.Percentage(500000, 3000000)))
}

func TestAddDays(t *testing.T) {
	start, err := ledger.ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ledger.AddDays(start, 60))
}
