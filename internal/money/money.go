// Package money is the decimal arithmetic substrate for the calculator.
//
// Every monetary and quantity value in the matching engine routes through
// shopspring/decimal, never binary floating point: UK share-matching rules
// involve long chains of proportional apportionment and binary floats would
// accumulate rounding error across them. Division keeps a very high internal
// precision so intermediate truncation is negligible; residual rounding
// residue per apportionment is an accepted characteristic of the computation.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/apperrors"
)

// DefaultDivisionPrecision is the number of fractional digits kept by
// decimal division unless configured otherwise.
const DefaultDivisionPrecision = 40

// Zero is the shared zero amount.
var Zero = decimal.Zero

func init() {
	decimal.DivisionPrecision = DefaultDivisionPrecision
}

// SetDivisionPrecision overrides the internal division precision. Intended
// for configuration at startup, not mid-run.
func SetDivisionPrecision(digits int) {
	decimal.DivisionPrecision = digits
}

// amountCleaner strips currency symbols and thousands separators that broker
// exports routinely embed in numeric columns.
var amountCleaner = strings.NewReplacer("£", "", "$", "", "€", "", ",", "")

// Parse converts a numeric string into a decimal amount. Currency symbols and
// thousands separators are stripped first. Malformed input fails with
// apperrors.ErrMalformedAmount.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountCleaner.Replace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty string", apperrors.ErrMalformedAmount)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrMalformedAmount, s)
	}
	return d, nil
}

// MustParse is Parse for literals known to be valid, such as test fixtures
// and format constants. It panics on malformed input.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Div divides a by b, failing with apperrors.ErrDivisionByZero instead of
// panicking when b is zero.
func Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: %s / 0", apperrors.ErrDivisionByZero, a)
	}
	return a.Div(b), nil
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
