package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable fixed-point amount. The zero value is zero.
//
// Compare amounts with Equal or Cmp; == compares the internal representation,
// so 1.0 and 1.00 are not == even though they are Equal.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// FromInt builds an amount from a whole number of units.
func FromInt(units int64) Money {
	return Money{amount: decimal.NewFromInt(units)}
}

// FromDecimal wraps an existing decimal value.
func FromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// Parse reads an amount such as "100" or "12.50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Money{amount: d}, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(other Money) Money { return Money{amount: m.amount.Add(other.amount)} }
func (m Money) Sub(other Money) Money { return Money{amount: m.amount.Sub(other.amount)} }
func (m Money) Neg() Money            { return Money{amount: m.amount.Neg()} }

// Cmp returns -1, 0 or +1 depending on whether m is less than, equal to or
// greater than other.
func (m Money) Cmp(other Money) int { return m.amount.Cmp(other.amount) }

func (m Money) Equal(other Money) bool       { return m.amount.Equal(other.amount) }
func (m Money) LessThan(other Money) bool    { return m.amount.LessThan(other.amount) }
func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }
func (m Money) IsZero() bool     { return m.amount.IsZero() }

// Decimal exposes the underlying value.
func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) String() string { return m.amount.String() }

// MarshalText encodes the amount as a decimal string so JSON payloads never
// pass through float64.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalText decodes an amount produced by MarshalText.
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
