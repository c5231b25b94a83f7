// Package inputformat parses broker export files into normalized asset-trade
// groups. Each format sniffs raw input with a Matches predicate; Detect tries
// the known formats in priority order, most specific first.
package inputformat

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/currency"
	"github.com/s104tools/cgtcalc/internal/model"
)

// AssetTrades is one normalized asset pool extracted from an input file. A
// single file may yield several pools, e.g. one per security in a brokerage
// statement.
type AssetTrades struct {
	Asset    asset.Asset
	Currency currency.Currency
	Trades   []model.Trade
}

// Format is one broker export dialect.
type Format interface {
	// Matches sniffs whether raw input looks like this format.
	Matches(input string) bool

	// ExtractAssetTrades parses the input into asset-trade groups.
	ExtractAssetTrades(input string) ([]AssetTrades, error)
}

// formats is the static priority-ordered list of known dialects. Generic
// last: its metadata header is the least specific.
var formats = []Format{
	Coinbase{},
	VanguardGIA{},
	Generic{},
}

// Detect returns the first format whose Matches predicate accepts the input.
func Detect(input string) (Format, error) {
	for _, f := range formats {
		if f.Matches(input) {
			return f, nil
		}
	}
	return nil, apperrors.ErrUnknownFormat
}

// splitLines normalizes Windows line endings and splits the input.
func splitLines(input string) []string {
	return strings.Split(strings.ReplaceAll(input, "\r", ""), "\n")
}

// parseRecords reads CSV text with a header row into one map per record.
func parseRecords(text string) ([]map[string]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedInput, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", apperrors.ErrMalformedInput)
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// dateDaysBetween counts whole days from a to b; both are expected to be
// day-anchored timestamps.
func dateDaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
