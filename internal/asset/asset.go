// Package asset formats quantities of the different asset kinds a pool can
// hold. Each kind carries its own display precision and unit labels.
package asset

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset formats quantities for report output.
type Asset interface {
	// FormatWithUnit renders a quantity followed by its unit label,
	// e.g. "0.50000000 BTC" or "1 share".
	FormatWithUnit(qty decimal.Decimal) string

	// FormatBare renders a quantity at the asset's display precision with
	// no unit label.
	FormatBare(qty decimal.Decimal) string

	// Header returns the holdings column label, e.g. "Number of shares".
	Header() string
}

// Crypto is a cryptocurrency quantity, displayed to 8 decimal places.
type Crypto struct {
	Symbol string
}

func (c Crypto) FormatWithUnit(qty decimal.Decimal) string {
	return fmt.Sprintf("%s %s", c.FormatBare(qty), c.Symbol)
}

func (c Crypto) FormatBare(qty decimal.Decimal) string {
	return qty.StringFixed(8)
}

func (c Crypto) Header() string {
	return c.Symbol + " quantity"
}

// Share is an integer share count.
type Share struct {
	Name string
}

func (s Share) FormatWithUnit(qty decimal.Decimal) string {
	unit := "shares"
	if qty.Equal(decimal.NewFromInt(1)) {
		unit = "share"
	}
	return fmt.Sprintf("%s %s", s.FormatBare(qty), unit)
}

func (s Share) FormatBare(qty decimal.Decimal) string {
	return qty.StringFixed(0)
}

func (s Share) Header() string {
	return "Number of shares"
}

// Unit is a fund unit quantity, displayed to 2 decimal places.
type Unit struct {
	Name string
}

func (u Unit) FormatWithUnit(qty decimal.Decimal) string {
	unit := "units"
	if qty.Equal(decimal.NewFromInt(1)) {
		unit = "unit"
	}
	return fmt.Sprintf("%s %s", u.FormatBare(qty), unit)
}

func (u Unit) FormatBare(qty decimal.Decimal) string {
	return qty.StringFixed(2)
}

func (u Unit) Header() string {
	return "Number of units"
}
