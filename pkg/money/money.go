// Package money provides an exact fixed-point representation for monetary
// amounts with two fraction digits. Amounts are stored as an integer number
// of cents so repeated additions and subtractions never drift.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a string cannot be parsed as a monetary
// amount, or carries more than two fraction digits.
var ErrInvalidAmount = errors.New("invalid amount format")

// Amount is a monetary value in cents.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// Parse converts a decimal string like "12.34" into an Amount.
// More than two fraction digits is rejected rather than rounded: the callers
// exchange amounts as exact fixed-point decimals, so "0.005" is a caller bug,
// not something to silently round away.
func Parse(s string) (Amount, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than 2 decimal places", ErrInvalidAmount, s)
	}

	// IntPart truncates silently on overflow; round-trip to detect it.
	n := cents.IntPart()
	if !decimal.NewFromInt(n).Equal(cents) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}

	return Amount(n), nil
}

// MustParse is Parse for test fixtures and constants; it panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromCents builds an Amount from an integer number of cents.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents returns the amount as an integer number of cents.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return a - b
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return -a
}

// Abs returns the absolute value of a.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsPositive reports whether the amount is greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// IsNegative reports whether the amount is less than zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool {
	return a < b
}

// Decimal returns the amount as a shopspring decimal scaled to 2 places.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String formats the amount with exactly two fraction digits, e.g. "12.30".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a quoted decimal string to keep clients
// away from binary floating point.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Bare number: re-parse the raw token as a decimal string.
		s = string(data)
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
