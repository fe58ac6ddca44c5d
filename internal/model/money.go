package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents). Keeping balances as integers
// makes the zero-sum check exact.
type Money int64

// centsPerUnit is the number of minor units in one currency unit.
const centsPerUnit = 100

// MaxMoney is the largest magnitude a single amount may have: ten trillion
// units. Sums over thousands of such amounts still fit in an int64.
const MaxMoney Money = 1_000_000_000_000_000

var maxCents = decimal.NewFromInt(int64(MaxMoney))

// ParseMoney parses a decimal string like "12.34" into Money.
// Values with more than two decimal places are rounded to the nearest cent.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	m, err := MoneyFromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return m, nil
}

// MoneyFromDecimal rounds d to cents. Magnitudes above MaxMoney return
// ErrAmountOutOfRange.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Round(2).Shift(2)
	if cents.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, d.String())
	}
	return Money(cents.IntPart()), nil
}

// MoneyFromFloat rounds f to cents. NaN, infinities and magnitudes above
// MaxMoney return ErrAmountOutOfRange.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %g", ErrAmountOutOfRange, f)
	}
	return MoneyFromDecimal(decimal.NewFromFloat(f))
}

// Cents returns m as a plain integer count of minor units.
func (m Money) Cents() int64 {
	return int64(m)
}

// Decimal returns m in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Float returns m in currency units as a float64.
func (m Money) Float() float64 {
	return float64(m) / centsPerUnit
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// String formats m with exactly two decimals, e.g. "-12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}
