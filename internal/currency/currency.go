// Package currency renders monetary amounts for report output.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes how amounts in one reporting currency are displayed.
type Currency struct {
	Code           string
	Symbol         string
	FractionDigits int32

	// GroupThousands inserts thousands separators into the integer part.
	GroupThousands bool
}

// GBP is the UK reporting currency.
var GBP = Currency{
	Code:           "GBP",
	Symbol:         "£",
	FractionDigits: 2,
}

// Format renders an amount with the currency symbol, fixed fraction digits
// and a leading sign for negative values, e.g. "-£1650.00".
func (c Currency) Format(amount decimal.Decimal) string {
	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(c.Symbol)

	fixed := amount.Abs().StringFixed(c.FractionDigits)
	if c.GroupThousands {
		fixed = groupThousands(fixed)
	}
	b.WriteString(fixed)
	return b.String()
}

// groupThousands inserts commas into the integer part of an unsigned
// fixed-decimal string.
func groupThousands(fixed string) string {
	intPart := fixed
	rest := ""
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart, rest = fixed[:dot], fixed[dot:]
	}
	if len(intPart) <= 3 {
		return intPart + rest
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + rest
}
