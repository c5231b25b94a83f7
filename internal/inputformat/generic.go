package inputformat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/currency"
	"github.com/s104tools/cgtcalc/internal/model"
	"github.com/s104tools/cgtcalc/internal/money"
)

// Generic reads the calculator's own interchange format: a metadata preamble
// introduced by "FORMAT,GENERIC", then a record section headed
// "Date,Type,Quantity,Total,Fee,Description".
//
// Totals are quoted before fees, so no fee back-out is needed.
type Generic struct{}

func (Generic) Matches(input string) bool {
	lines := splitLines(input)
	return len(lines) > 0 && strings.HasPrefix(strings.ToUpper(lines[0]), "FORMAT,GENERIC")
}

func (g Generic) ExtractAssetTrades(input string) ([]AssetTrades, error) {
	lines := splitLines(input)

	headerIndex := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "Date,") {
			headerIndex = i
			break
		}
	}
	if headerIndex < 0 {
		return nil, fmt.Errorf("%w: missing Date header row", apperrors.ErrMalformedInput)
	}

	metadata, err := parseMetadataLines(lines[:headerIndex])
	if err != nil {
		return nil, err
	}
	share := strings.TrimSpace(metadata["Share"])
	if share == "" {
		return nil, fmt.Errorf("%w: missing Share field in metadata", apperrors.ErrMalformedInput)
	}

	records, err := parseRecords(strings.Join(lines[headerIndex:], "\n"))
	if err != nil {
		return nil, err
	}

	trades := make([]model.Trade, 0, len(records))
	for _, r := range records {
		date, err := time.Parse("2006-01-02", r["Date"])
		if err != nil {
			return nil, fmt.Errorf("%w: expected date in format YYYY-MM-DD, got %q",
				apperrors.ErrMalformedInput, r["Date"])
		}

		kind := model.TradeType(strings.ToUpper(r["Type"]))
		if kind != model.Buy && kind != model.Sell {
			return nil, fmt.Errorf("%w: expected type BUY or SELL, got %q",
				apperrors.ErrMalformedInput, r["Type"])
		}

		qty, err := money.Parse(r["Quantity"])
		if err != nil {
			return nil, err
		}
		total, err := money.Parse(r["Total"])
		if err != nil {
			return nil, err
		}
		fee := money.Zero
		if strings.TrimSpace(r["Fee"]) != "" {
			if fee, err = money.Parse(r["Fee"]); err != nil {
				return nil, err
			}
		}

		description := r["Description"]
		if description == "" {
			description = fmt.Sprintf("%s %s of %s", strings.ToLower(string(kind)), qty, share)
		}

		trades = append(trades, model.Trade{
			ID:          uuid.NewString(),
			Date:        time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, time.UTC),
			DateOnly:    true,
			Type:        kind,
			Quantity:    qty,
			Total:       total,
			Fee:         fee,
			Description: description,
			Raw:         []map[string]string{r},
		})
	}

	return []AssetTrades{{
		Asset:    asset.Share{Name: share},
		Currency: currency.GBP,
		Trades:   trades,
	}}, nil
}

// parseMetadataLines reads "key,value" preamble lines, tolerating trailing
// commas that spreadsheet exports pad rows with.
func parseMetadataLines(lines []string) (map[string]string, error) {
	metadata := make(map[string]string)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, found := strings.Cut(line, ",")
		if !found {
			return nil, fmt.Errorf("%w: metadata line %q", apperrors.ErrMalformedInput, line)
		}
		metadata[key] = strings.TrimRight(value, ",")
	}
	return metadata, nil
}
