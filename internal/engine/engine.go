// Package engine implements the HMRC share-matching rules for Capital Gains
// Tax: same-day matching, the 30-day "bed and breakfasting" rule, and the
// Section 104 holding for any residual quantity.
//
// An Engine owns the pool state for exactly one (asset, currency) pairing.
// Process is synchronous and not safe for concurrent use on one instance;
// callers run one engine per asset pool.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/currency"
	"github.com/s104tools/cgtcalc/internal/model"
	"github.com/s104tools/cgtcalc/internal/money"
	"github.com/s104tools/cgtcalc/internal/taxyear"
	"github.com/s104tools/cgtcalc/internal/validation"
)

// bedAndBreakfastDays is the statutory forward-matching window for the
// 30-day rule.
const bedAndBreakfastDays = 30

// Engine processes one complete trade history for a single asset pool.
type Engine struct {
	asset    asset.Asset
	currency currency.Currency
	loc      *time.Location
	trace    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrace installs a structured log sink invoked at the engine's trace
// points (match found, pool mutated, consolidation). Tracing is off by
// default.
func WithTrace(log *zap.Logger) Option {
	return func(e *Engine) {
		e.trace = log
	}
}

// WithLocation sets the reporting timezone used for calendar-date
// comparisons. Defaults to Europe/London, the jurisdiction's timezone.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// New creates an engine for one (asset, currency) pairing.
func New(a asset.Asset, c currency.Currency, opts ...Option) *Engine {
	e := &Engine{
		asset:    a,
		currency: c,
		trace:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.loc == nil {
		loc, err := time.LoadLocation("Europe/London")
		if err != nil {
			loc = time.UTC
		}
		e.loc = loc
	}
	return e
}

// FeeTotals accumulates transaction fees across a run, split by side.
type FeeTotals struct {
	Buy  decimal.Decimal `json:"buy"`
	Sell decimal.Decimal `json:"sell"`
}

// Total returns the combined buy-side and sell-side fees.
func (f FeeTotals) Total() decimal.Decimal {
	return f.Buy.Add(f.Sell)
}

// Result is the authoritative, read-only outcome of one Process invocation.
type Result struct {
	Disposals []model.Disposal           `json:"disposals"`
	Gain      decimal.Decimal            `json:"gain"`
	Pool      Pool                       `json:"pool"`
	Fees      FeeTotals                  `json:"fees"`
	TaxYears  map[string]taxyear.Summary `json:"taxYears"`
}

// futureBuy is a working copy of a BUY trade tracking how much of the
// acquisition is still unconsumed by matching. It lives only for the duration
// of one Process call.
type futureBuy struct {
	trade     model.Trade
	remaining decimal.Decimal
}

// Process runs the full computation over a trade history: validation,
// same-day consolidation, then the three matching phases per SELL in strict
// date order. Any failure is fatal for the whole history; partial results are
// never returned.
func (e *Engine) Process(trades []model.Trade) (*Result, error) {
	if err := validation.ValidateTrades(trades); err != nil {
		return nil, err
	}

	normalized, err := e.normalize(trades)
	if err != nil {
		return nil, err
	}
	consolidated := e.Consolidate(normalized)

	// Working copies for forward matching. Same-day and 30-day phases index
	// into this list for every sell, so a buy's remaining quantity can be
	// consumed before the buy itself is reached in the main loop.
	futureBuys := make([]*futureBuy, 0, len(consolidated))
	buysByID := make(map[string]*futureBuy)
	for _, t := range consolidated {
		if t.Type == model.Buy {
			fb := &futureBuy{trade: t, remaining: t.Quantity}
			futureBuys = append(futureBuys, fb)
			buysByID[t.ID] = fb
		}
	}

	var (
		pool      Pool
		fees      FeeTotals
		disposals []model.Disposal
	)

	for _, t := range consolidated {
		switch t.Type {
		case model.Sell:
			fees.Sell = fees.Sell.Add(t.Fee)
			disposal, err := e.processSell(t, futureBuys, &pool)
			if err != nil {
				return nil, fmt.Errorf("disposal %q (%s, %s): %w",
					t.ID, t.Date.In(e.loc).Format("2006-01-02"), t.Description, err)
			}
			disposals = append(disposals, *disposal)

		case model.Buy:
			fees.Buy = fees.Buy.Add(t.Fee)
			if err := e.poolBuyRemainder(t, buysByID, &pool); err != nil {
				return nil, fmt.Errorf("acquisition %q (%s, %s): %w",
					t.ID, t.Date.In(e.loc).Format("2006-01-02"), t.Description, err)
			}
		}
	}

	years, totalGain := taxyear.Aggregate(disposals)

	return &Result{
		Disposals: disposals,
		Gain:      totalGain,
		Pool:      pool,
		Fees:      fees,
		TaxYears:  years,
	}, nil
}

// normalize rewrites trade totals to the engine's fee-exclusive convention.
// Formats that export fee-inclusive totals have the fee backed out: a BUY
// total drops to the asset cost alone, a SELL total rises back to gross
// proceeds.
func (e *Engine) normalize(trades []model.Trade) ([]model.Trade, error) {
	out := make([]model.Trade, len(trades))
	for i, t := range trades {
		t.Total = t.Total.Abs()
		if t.TotalNetFee {
			switch t.Type {
			case model.Buy:
				t.Total = t.Total.Sub(t.Fee)
			case model.Sell:
				t.Total = t.Total.Add(t.Fee)
			}
			t.TotalNetFee = false
		}
		if t.Total.IsNegative() {
			return nil, fmt.Errorf("%w: trade %q has fee %s exceeding its fee-inclusive total",
				apperrors.ErrInvalidTrade, t.ID, t.Fee)
		}
		out[i] = t
	}
	return out, nil
}

// processSell runs the three matching phases for one SELL trade and emits
// its disposal record.
func (e *Engine) processSell(t model.Trade, futureBuys []*futureBuy, pool *Pool) (*model.Disposal, error) {
	remaining := t.Quantity
	proceeds := t.Total
	gain := money.Zero
	allowable := money.Zero

	// Phase 1: same-day matching.
	for _, fb := range futureBuys {
		if !remaining.IsPositive() {
			break
		}
		if !fb.remaining.IsPositive() || e.daysBetween(t.Date, fb.trade.Date) != 0 {
			continue
		}
		matchGain, matchCost, matched, err := e.matchAgainstBuy(t, fb, remaining, proceeds)
		if err != nil {
			return nil, err
		}
		gain = gain.Add(matchGain)
		allowable = allowable.Add(matchCost)
		remaining = remaining.Sub(matched)

		e.trace.Debug("matched against same-day acquisition",
			zap.String("sell", t.ID),
			zap.String("buy", fb.trade.ID),
			zap.String("quantity", matched.String()),
			zap.String("gain", matchGain.String()))
	}

	// Phase 2: 30-day matching, chronological over acquisitions strictly
	// after the disposal date.
	for _, fb := range futureBuys {
		if !remaining.IsPositive() {
			break
		}
		if !fb.remaining.IsPositive() {
			continue
		}
		days := e.daysBetween(t.Date, fb.trade.Date)
		if days <= 0 || days > bedAndBreakfastDays {
			continue
		}
		matchGain, matchCost, matched, err := e.matchAgainstBuy(t, fb, remaining, proceeds)
		if err != nil {
			return nil, err
		}
		gain = gain.Add(matchGain)
		allowable = allowable.Add(matchCost)
		remaining = remaining.Sub(matched)

		e.trace.Debug("matched under the 30-day rule",
			zap.String("sell", t.ID),
			zap.String("buy", fb.trade.ID),
			zap.Int("daysAfterDisposal", days),
			zap.String("quantity", matched.String()),
			zap.String("gain", matchGain.String()))
	}

	// Phase 3: Section 104 holding takes the full residue.
	if remaining.IsNegative() {
		return nil, fmt.Errorf("%w: negative unmatched quantity %s",
			apperrors.ErrUnsupportedScenario, remaining)
	}
	if remaining.IsPositive() {
		costPerUnit, err := pool.CostPerUnit()
		if err != nil {
			return nil, err
		}
		costPortion := costPerUnit.Mul(remaining)

		ratio, err := money.Div(remaining, t.Quantity)
		if err != nil {
			return nil, err
		}
		trancheCost := costPortion.Add(t.Fee.Mul(ratio))
		trancheProceeds := proceeds.Mul(ratio)
		tranche := trancheProceeds.Sub(trancheCost)

		gain = gain.Add(tranche)
		allowable = allowable.Add(trancheCost)

		if err := pool.Remove(remaining, costPortion); err != nil {
			return nil, err
		}
		e.trace.Debug("matched against section 104 holding",
			zap.String("sell", t.ID),
			zap.String("quantity", remaining.String()),
			zap.String("costPortion", costPortion.String()),
			zap.String("poolQuantity", pool.Quantity.String()),
			zap.String("poolCost", pool.Cost.String()))
	}

	return &model.Disposal{
		Date:          t.Date,
		TaxYear:       taxyear.FromDate(t.Date.In(e.loc)),
		Quantity:      t.Quantity,
		Proceeds:      proceeds,
		AllowableCost: allowable,
		Gain:          gain,
	}, nil
}

// matchAgainstBuy apportions one match between a sell and a future buy. The
// same formula serves the same-day and 30-day phases: proceeds and the sell
// fee are apportioned by the sold fraction, acquisition cost and fee by the
// bought fraction, and the allowable cost combines all three fee-bearing
// parts.
func (e *Engine) matchAgainstBuy(sell model.Trade, fb *futureBuy, remaining, proceeds decimal.Decimal) (gain, allowableCost, matched decimal.Decimal, err error) {
	matched = money.Min(remaining, fb.remaining)

	sellRatio, err := money.Div(matched, sell.Quantity)
	if err != nil {
		return money.Zero, money.Zero, money.Zero, err
	}
	buyRatio, err := money.Div(matched, fb.trade.Quantity)
	if err != nil {
		return money.Zero, money.Zero, money.Zero, err
	}

	matchedProceeds := proceeds.Mul(sellRatio)
	allowableCost = sell.Fee.Mul(sellRatio).
		Add(fb.trade.Total.Mul(buyRatio)).
		Add(fb.trade.Fee.Mul(buyRatio))
	gain = matchedProceeds.Sub(allowableCost)

	fb.remaining = fb.remaining.Sub(matched)
	return gain, allowableCost, matched, nil
}

// poolBuyRemainder adds the unmatched part of a BUY to the Section 104
// holding with a pro-rata share of its fee-inclusive cost. By the time the
// main loop reaches a buy, every disposal that could consume it has already
// run, so its remaining quantity is final.
func (e *Engine) poolBuyRemainder(t model.Trade, buysByID map[string]*futureBuy, pool *Pool) error {
	fb, ok := buysByID[t.ID]
	if !ok {
		return fmt.Errorf("%w: acquisition missing from working copies", apperrors.ErrUnsupportedScenario)
	}
	if fb.remaining.IsNegative() {
		return fmt.Errorf("%w: negative unmatched quantity %s",
			apperrors.ErrUnsupportedScenario, fb.remaining)
	}
	if fb.remaining.IsZero() {
		// Fully consumed by same-day or 30-day matching; no holding
		// contribution.
		return nil
	}

	ratio, err := money.Div(fb.remaining, t.Quantity)
	if err != nil {
		return err
	}
	costPortion := t.Total.Add(t.Fee).Mul(ratio)
	pool.Add(fb.remaining, costPortion)

	e.trace.Debug("added to section 104 holding",
		zap.String("buy", t.ID),
		zap.String("quantity", fb.remaining.String()),
		zap.String("cost", costPortion.String()),
		zap.String("poolQuantity", pool.Quantity.String()),
		zap.String("poolCost", pool.Cost.String()))
	return nil
}

// daysBetween counts whole calendar days from a to b in the reporting
// timezone. Negative when b precedes a.
func (e *Engine) daysBetween(a, b time.Time) int {
	return int(e.dayOf(b).Sub(e.dayOf(a)) / (24 * time.Hour))
}
