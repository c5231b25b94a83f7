package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeType identifies the direction of a trade.
type TradeType string

// Allowed trade types.
const (
	Buy  TradeType = "BUY"
	Sell TradeType = "SELL"
)

// Trade represents one normalized taxable event, produced by an input format
// and consumed by the matching engine.
//
// Total carries the amount in the reporting currency. Once normalized it is
// fee-exclusive: for a BUY the cost of the asset before fees, for a SELL the
// disposal proceeds before fees. Formats that export fee-inclusive totals set
// TotalNetFee so the engine backs the fee out first.
type Trade struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	DateOnly    bool            `json:"dateOnly,omitempty"` // source data carried no intra-day time
	Type        TradeType       `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Fee         decimal.Decimal `json:"fee"`
	Total       decimal.Decimal `json:"total"`
	TotalNetFee bool            `json:"totalNetFee,omitempty"`
	Description string          `json:"description"`

	// Raw references the original source record(s). Consolidation appends,
	// so a consolidated trade carries every constituent record in order.
	Raw []map[string]string `json:"-"`
}
