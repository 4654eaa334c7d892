package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount of currency expressed as an integer count of minor units
// (cents). Binary floating point is never used for amounts.
type Money int64

const (
	Zero Money = 0

	// Tolerance is the rounding slack allowed when comparing an aggregate
	// against an order total. Amounts are exact cents, so no slack is needed.
	Tolerance Money = 0

	// maxCents bounds parsed input well inside int64.
	maxCents = 1_000_000_000_000_000

	// maxExponent and maxCoefficientDigits bound decoded decimals before
	// they are rescaled; both leave room for trailing zeros like "1.500".
	maxExponent          = 18
	maxCoefficientDigits = 40
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidSplitCount = errors.New("invalid split count")
)

var maxDecimal = decimal.New(maxCents, -2)

// FromCents builds a Money from a count of minor units.
func FromCents(cents int64) Money {
	return Money(cents)
}

// Parse reads a decimal string such as "114.97". More than two fractional
// digits, non-numeric input and out-of-range values are rejected.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal converts an exact decimal into cents.
//
// The exponent and coefficient size are bounded before any rescaling:
// Round, Cmp and Shift expand the coefficient to 10^exponent digits, so an
// input like 1e20000000 would otherwise cost minutes of CPU.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return Zero, fmt.Errorf("%w: exponent %d out of range", ErrInvalidAmount, exp)
	}
	if d.NumDigits() > maxCoefficientDigits {
		return Zero, fmt.Errorf("%w: too many digits", ErrInvalidAmount)
	}
	if !d.Round(2).Equal(d) {
		return Zero, fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, d.String())
	}
	if d.Abs().GreaterThan(maxDecimal) {
		return Zero, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
	}
	return Money(d.Shift(2).IntPart()), nil
}

func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) Add(o Money) Money {
	return m + o
}

func (m Money) Sub(o Money) Money {
	return m - o
}

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int {
	switch {
	case m < o:
		return -1
	case m > o:
		return 1
	default:
		return 0
	}
}

func (m Money) IsPositive() bool {
	return m > 0
}

func (m Money) IsZero() bool {
	return m == 0
}

func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Split returns n shares that sum exactly to m. Every share is m/n rounded
// down to the cent except the last, which absorbs the remainder.
func (m Money) Split(n int) ([]Money, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSplitCount, n)
	}
	share := m / Money(n)
	if m < 0 && share*Money(n) != m {
		share-- // floor, not truncation
	}
	out := make([]Money, n)
	for i := 0; i < n-1; i++ {
		out[i] = share
	}
	out[n-1] = m - share*Money(n-1)
	return out, nil
}

// Sum adds all amounts.
// SumChecked is Sum that reports int64 overflow instead of wrapping.
func SumChecked(amounts ...Money) (Money, bool) {
	var total Money
	for _, a := range amounts {
		if (a > 0 && total > math.MaxInt64-a) || (a < 0 && total < math.MinInt64-a) {
			return 0, false
		}
		total += a
	}
	return total, true
}

func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// Max returns the larger amount.
func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// MarshalJSON renders the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	if strings.TrimSpace(string(b)) == "null" {
		return ErrInvalidAmount
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	parsed, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
