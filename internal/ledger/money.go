package ledger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents). The book is single-currency.
type Money int64

// MinorUnitExponent is the number of decimal places in a major unit.
const MinorUnitExponent = 2

// SettlementTolerance is the rounding slack applied when deciding whether an
// invoice or loan is settled: one minor unit.
const SettlementTolerance Money = 1

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

var (
	maxMoney = decimal.NewFromInt(math.MaxInt64)
	minMoney = decimal.NewFromInt(math.MinInt64)
)

func fitsMoney(d decimal.Decimal) bool {
	return !d.GreaterThan(maxMoney) && !d.LessThan(minMoney)
}

// ParseMoney converts a decimal string like "10.50" to 1050. More than two
// fractional digits is rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	shifted := d.Shift(MinorUnitExponent)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("invalid amount %q: more than %d decimal places", s, MinorUnitExponent)
	}
	if !fitsMoney(shifted) {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	return Money(shifted.IntPart()), nil
}

// Decimal returns m in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnitExponent)
}

// MulQuantity prices qty units at m per unit, rounded to the minor unit.
// Inputs are range-checked by Validate before they reach here.
func (m Money) MulQuantity(qty decimal.Decimal) Money {
	v, _ := m.MulQuantityChecked(qty)
	return v
}

// MulQuantityChecked is MulQuantity that reports false instead of wrapping
// when the result does not fit in Money.
func (m Money) MulQuantityChecked(qty decimal.Decimal) (Money, bool) {
	d := decimal.NewFromInt(int64(m)).Mul(qty).Round(0)
	if !fitsMoney(d) {
		return 0, false
	}
	return Money(d.IntPart()), true
}

// String renders m as "1234.56".
func (m Money) String() string {
	amount := int64(m)
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}

// Percentage returns part/whole*100 rounded to two places, or zero when
// whole is zero.
func Percentage(part, whole Money) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(whole)), 2)
}

// ParseDate parses a "2006-01-02" calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date n days after t.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}
