package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Disposal represents the computed result of one SELL trade. It is created
// once by the matching engine and never mutated afterwards.
//
// Proceeds is gross of fees for the full disposed quantity; AllowableCost
// sums the matched acquisition costs plus apportioned fees across the
// same-day, 30-day and Section 104 matching phases.
type Disposal struct {
	Date          time.Time       `json:"date"`
	TaxYear       string          `json:"taxYear"`
	Quantity      decimal.Decimal `json:"quantity"`
	Proceeds      decimal.Decimal `json:"proceeds"`
	AllowableCost decimal.Decimal `json:"allowableCost"`
	Gain          decimal.Decimal `json:"gain"`
}
