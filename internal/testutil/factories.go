// Package testutil provides builders for constructing test trades.
package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/model"
)

// TradeBuilder provides a fluent interface for creating test trades.
//
// Example usage:
//
//	// Simple creation with defaults
//	trade := testutil.NewBuy("2020-03-01", "1000", "2000").Build()
//
//	// Customized trade
//	trade := testutil.NewSell("2021-01-11", "100", "250").
//	    WithFee("5").
//	    WithDescription("Sold 100 shares").
//	    Build()
type TradeBuilder struct {
	trade model.Trade
}

// NewTrade creates a TradeBuilder with sensible defaults.
func NewTrade(kind model.TradeType, date, quantity, total string) *TradeBuilder {
	return &TradeBuilder{trade: model.Trade{
		ID:          uuid.NewString(),
		Date:        MustDate(date),
		Type:        kind,
		Quantity:    mustDecimal(quantity),
		Total:       mustDecimal(total),
		Fee:         decimal.Zero,
		Description: "test trade",
		Raw:         []map[string]string{{}},
	}}
}

// NewBuy creates a builder for a BUY trade.
func NewBuy(date, quantity, total string) *TradeBuilder {
	return NewTrade(model.Buy, date, quantity, total)
}

// NewSell creates a builder for a SELL trade.
func NewSell(date, quantity, total string) *TradeBuilder {
	return NewTrade(model.Sell, date, quantity, total)
}

// WithID sets a custom ID.
func (b *TradeBuilder) WithID(id string) *TradeBuilder {
	b.trade.ID = id
	return b
}

// WithFee sets the transaction fee.
func (b *TradeBuilder) WithFee(fee string) *TradeBuilder {
	b.trade.Fee = mustDecimal(fee)
	return b
}

// WithDescription sets a custom description.
func (b *TradeBuilder) WithDescription(desc string) *TradeBuilder {
	b.trade.Description = desc
	return b
}

// WithDate sets a custom timestamp, replacing the default day-anchored one.
func (b *TradeBuilder) WithDate(date time.Time) *TradeBuilder {
	b.trade.Date = date
	return b
}

// TotalNetFee marks the total as fee-inclusive so the engine backs the fee out.
func (b *TradeBuilder) TotalNetFee() *TradeBuilder {
	b.trade.TotalNetFee = true
	return b
}

// Build returns the trade.
func (b *TradeBuilder) Build() model.Trade {
	return b.trade
}

// MustDate parses a YYYY-MM-DD date into a mid-day UTC timestamp, matching
// how the input formats anchor day-level dates.
func MustDate(date string) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
