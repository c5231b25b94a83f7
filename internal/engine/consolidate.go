package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/s104tools/cgtcalc/internal/model"
)

// Consolidate collapses multiple trades of the same type on the same calendar
// date into one synthetic trade per HMRC's same-day aggregation convention:
// all of a day's acquisitions count as a single acquisition and all of a
// day's disposals as a single disposal.
//
// The output is sorted by (date, type) with a day's disposals ahead of its
// acquisitions, so the engine's same-day matching phase sees disposals first.
func (e *Engine) Consolidate(trades []model.Trade) []model.Trade {
	type groupKey struct {
		day  string
		kind model.TradeType
	}

	groups := make(map[groupKey][]model.Trade)
	order := make([]groupKey, 0, len(trades))
	for _, t := range trades {
		key := groupKey{day: e.dayOf(t.Date).Format("2006-01-02"), kind: t.Type}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	// SELL sorts before BUY within a day so same-day disposals match against
	// same-day acquisitions predictably.
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].day != order[j].day {
			return order[i].day < order[j].day
		}
		return order[i].kind == model.Sell && order[j].kind == model.Buy
	})

	out := make([]model.Trade, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		out = append(out, e.merge(group))
	}
	return out
}

// merge combines same-day, same-type trades into one consolidated trade.
// Quantity, total and fee are summed, intra-day time precision is lost, and
// the raw records of every constituent are carried over in order.
func (e *Engine) merge(group []model.Trade) model.Trade {
	first := group[0]
	merged := model.Trade{
		ID:          uuid.NewString(),
		Date:        e.dayOf(first.Date),
		DateOnly:    true,
		Type:        first.Type,
		TotalNetFee: first.TotalNetFee,
	}
	for _, t := range group {
		merged.Quantity = merged.Quantity.Add(t.Quantity)
		merged.Total = merged.Total.Add(t.Total)
		merged.Fee = merged.Fee.Add(t.Fee)
		merged.Raw = append(merged.Raw, t.Raw...)
	}

	word := "acquisitions"
	if merged.Type == model.Sell {
		word = "disposals"
	}
	merged.Description = fmt.Sprintf("made %d %s totalling %s for %s",
		len(group), word,
		e.asset.FormatWithUnit(merged.Quantity),
		e.currency.Format(merged.Total))

	e.trace.Debug("consolidated same-day trades",
		zap.String("date", merged.Date.Format("2006-01-02")),
		zap.String("type", string(merged.Type)),
		zap.Int("trades", len(group)),
		zap.String("quantity", merged.Quantity.String()))
	return merged
}

// dayOf truncates a timestamp to its calendar date in the reporting
// timezone, anchored in UTC so day arithmetic is unaffected by DST.
func (e *Engine) dayOf(t time.Time) time.Time {
	local := t.In(e.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
