package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/money"
)

// Pool is the Section 104 holding: the running aggregate of unmatched
// acquisition quantity and its actual cost, fees included. Quantity never
// goes negative.
type Pool struct {
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
}

// Add merges an unmatched acquisition remainder into the holding.
func (p *Pool) Add(qty, cost decimal.Decimal) {
	p.Quantity = p.Quantity.Add(qty)
	p.Cost = p.Cost.Add(cost)
}

// Remove takes a disposal remainder out of the holding. Removing more than
// the holding contains indicates upstream bookkeeping inconsistency and fails
// with apperrors.ErrPoolInsufficient.
func (p *Pool) Remove(qty, cost decimal.Decimal) error {
	if qty.GreaterThan(p.Quantity) {
		return fmt.Errorf("%w: holding %s, requested %s",
			apperrors.ErrPoolInsufficient, p.Quantity, qty)
	}
	p.Quantity = p.Quantity.Sub(qty)
	p.Cost = p.Cost.Sub(cost)
	return nil
}

// CostPerUnit returns the holding's average cost per unit, or zero while the
// holding is empty.
func (p *Pool) CostPerUnit() (decimal.Decimal, error) {
	if !p.Quantity.IsPositive() {
		return money.Zero, nil
	}
	return money.Div(p.Cost, p.Quantity)
}
