package inputformat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/currency"
	"github.com/s104tools/cgtcalc/internal/model"
	"github.com/s104tools/cgtcalc/internal/money"
)

// coinbaseAsset is the only asset extracted from Coinbase exports; rows for
// other assets are skipped.
const coinbaseAsset = "BTC"

// Coinbase reads the Coinbase transactions export: a metadata preamble
// ("Transactions", "User,...") followed by an "ID," record section.
//
// The export's totals are inclusive of fees and spread, so trades carry
// TotalNetFee for the engine to back the fee out.
type Coinbase struct{}

func (Coinbase) Matches(input string) bool {
	lines := splitLines(input)
	if len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return len(lines) >= 3 &&
		strings.HasPrefix(lines[0], "Transactions") &&
		strings.HasPrefix(lines[1], "User,") &&
		strings.HasPrefix(lines[2], "ID,")
}

func (c Coinbase) ExtractAssetTrades(input string) ([]AssetTrades, error) {
	lines := splitLines(input)
	for len(lines) > 0 && !strings.HasPrefix(lines[0], "ID,") {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: missing ID header row", apperrors.ErrMalformedInput)
	}

	records, err := parseRecords(strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}

	var trades []model.Trade
	for _, r := range records {
		if r["Asset"] != coinbaseAsset {
			continue
		}

		// "Advanced trade buy" and plain "Buy" both normalize on the last word.
		words := strings.Fields(strings.ToUpper(r["Transaction Type"]))
		if len(words) == 0 {
			continue
		}
		kind := model.TradeType(words[len(words)-1])
		if kind != model.Buy && kind != model.Sell {
			continue
		}

		date, err := parseCoinbaseTimestamp(r["Timestamp"])
		if err != nil {
			return nil, err
		}

		qty, err := money.Parse(r["Quantity Transacted"])
		if err != nil {
			return nil, err
		}
		fee, err := money.Parse(r["Fees and/or Spread"])
		if err != nil {
			return nil, err
		}
		total, err := money.Parse(r["Total (inclusive of fees and/or spread)"])
		if err != nil {
			return nil, err
		}

		trades = append(trades, model.Trade{
			ID:          r["ID"],
			Date:        date,
			Type:        kind,
			Quantity:    qty.Abs(), // quantity is negative for sales
			Fee:         fee,
			Total:       total,
			TotalNetFee: true,
			Description: r["Notes"],
			Raw:         []map[string]string{r},
		})
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Date.Before(trades[j].Date)
	})

	return []AssetTrades{{
		Asset:    asset.Crypto{Symbol: coinbaseAsset},
		Currency: currency.GBP,
		Trades:   trades,
	}}, nil
}

// parseCoinbaseTimestamp reads the export's "2021-01-11 09:00:00 UTC" style
// timestamps.
func parseCoinbaseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05 MST", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable timestamp %q", apperrors.ErrMalformedInput, s)
}
