// Package money holds prices as integer minor units.
//
// Catalog prices used to travel as decorated strings such as "$35.00". They are
// parsed exactly once, at the edge, and every computation afterwards works on
// Amount values so totals never drift through float rounding.
package money

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is used by String.
const DefaultSymbol = "$"

// ErrInvalidAmount is returned when a price string cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a monetary value in minor units (cents).
type Amount int64

// FromMinor wraps a minor-unit integer.
func FromMinor(cents int64) Amount {
	return Amount(cents)
}

// FromDecimal converts a major-unit decimal, rounding half away from zero to the cent.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Shift(2).Round(0).IntPart())
}

// Parse reads a price that may carry a currency symbol, thousands separators or
// surrounding whitespace: "$35.00", "R 1,250.50", "8.5", "-$2".
func Parse(s string) (Amount, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	negative := false
	trailing := false
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r) || r == '.':
			if trailing {
				return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
			}
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		case r == ',' || unicode.IsSpace(r):
		case unicode.IsLetter(r) || unicode.Is(unicode.Sc, r):
			// currency markers may lead ("$35") or trail ("35 USD")
			if b.Len() > 0 {
				trailing = true
			}
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		d = d.Neg()
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for literals; it panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Minor returns the value in cents.
func (a Amount) Minor() int64 {
	return int64(a)
}

// Decimal returns the value in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a)).Shift(-2)
}

// Mul multiplies by a quantity.
func (a Amount) Mul(qty int) Amount {
	return a * Amount(qty)
}

// Format renders the amount with the given currency symbol, e.g. "$35.00".
func (a Amount) Format(symbol string) string {
	if a < 0 {
		return "-" + symbol + (-a).Decimal().StringFixed(2)
	}
	return symbol + a.Decimal().StringFixed(2)
}

func (a Amount) String() string {
	return a.Format(DefaultSymbol)
}

// Sum adds amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
