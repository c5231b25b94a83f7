// Package validation checks structural invariants of trades before they may
// enter the matching engine. Validation never mutates and fails loudly:
// financial calculations must not proceed on malformed input.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/model"
)

// latestSupportedDate guards against garbage timestamps from broken date
// parsing upstream.
var latestSupportedDate = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)

// Error reports which trade fields failed validation and why.
type Error struct {
	TradeID string
	Fields  map[string]string
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, name := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%v (trade %q): %s", apperrors.ErrInvalidTrade, e.TradeID, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return apperrors.ErrInvalidTrade
}

// ValidateTrade checks all structural invariants of a trade.
//
// Checked invariants:
//   - id and description are non-empty
//   - date is a valid timestamp within the supported range
//   - type is BUY or SELL
//   - quantity is positive
//   - fee is non-negative
//   - total is non-zero before normalization
//
// Returns a validation Error with field-specific messages if any check fails.
func ValidateTrade(t model.Trade) error {
	errors := make(map[string]string)

	if strings.TrimSpace(t.ID) == "" {
		errors["id"] = "id is required"
	}
	if strings.TrimSpace(t.Description) == "" {
		errors["description"] = "description is required"
	}
	if t.Date.IsZero() || t.Date.Unix() == 0 {
		errors["date"] = "date is required"
	} else if t.Date.After(latestSupportedDate) {
		errors["date"] = fmt.Sprintf("date %s is beyond the supported range", t.Date.Format("2006-01-02"))
	}
	if t.Type != model.Buy && t.Type != model.Sell {
		errors["type"] = fmt.Sprintf("invalid type: %s", t.Type)
	}
	if !t.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if t.Fee.IsNegative() {
		errors["fee"] = "fee must be non-negative"
	}
	if t.Total.IsZero() {
		errors["total"] = "total must be non-zero"
	}

	if len(errors) > 0 {
		return &Error{TradeID: t.ID, Fields: errors}
	}

	return nil
}

// ValidateTrades validates a full trade sequence, stopping at the first
// failure.
func ValidateTrades(trades []model.Trade) error {
	for _, t := range trades {
		if err := ValidateTrade(t); err != nil {
			return err
		}
	}
	return nil
}
