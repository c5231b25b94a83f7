package inputformat

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/s104tools/cgtcalc/internal/apperrors"
	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/currency"
	"github.com/s104tools/cgtcalc/internal/model"
	"github.com/s104tools/cgtcalc/internal/money"
)

// dealingFeeWindowDays is how far before an investment row a dealing fee may
// appear in the cash section and still be associated with it.
const dealingFeeWindowDays = 7

// VanguardGIA reads a Vanguard General Investment Account statement: a
// sectioned CSV with cash transactions (which carry the ETF dealing fees)
// and investment transactions, one asset group per investment name.
//
// The Cost column excludes the separately-charged dealing fee, so totals are
// already fee-exclusive.
type VanguardGIA struct{}

var (
	vanguardCashHeader   = regexp.MustCompile(`^Date,Details,Amount,Balance`)
	vanguardCashEnd      = regexp.MustCompile(`^Balance,`)
	vanguardInvestHeader = regexp.MustCompile(`^Date,InvestmentName,TransactionDetails,Quantity,Price,Cost`)
	vanguardInvestEnd    = regexp.MustCompile(`^Cost,`)
)

func (VanguardGIA) Matches(input string) bool {
	lines := splitLines(input)
	if len(lines) < 5 ||
		!strings.HasPrefix(lines[0], "GIA") ||
		!strings.HasPrefix(lines[2], "Cash Transactions") ||
		!strings.HasPrefix(lines[4], "Date,Details,Amount,Balance,,") {
		return false
	}
	investmentIndex := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "Investment Transactions") {
			investmentIndex = i
			break
		}
	}
	return investmentIndex >= 0 &&
		investmentIndex+2 < len(lines) &&
		vanguardInvestHeader.MatchString(lines[investmentIndex+2])
}

func (v VanguardGIA) ExtractAssetTrades(input string) ([]AssetTrades, error) {
	lines := splitLines(input)

	cashRecords, err := parseRecords(strings.Join(collectSection(lines, vanguardCashHeader, vanguardCashEnd), "\n"))
	if err != nil {
		return nil, err
	}
	investmentRecords, err := parseRecords(strings.Join(collectSection(lines, vanguardInvestHeader, vanguardInvestEnd), "\n"))
	if err != nil {
		return nil, err
	}
	// The cash section is ascending but the investment section is exported
	// newest-first.
	reverse(investmentRecords)

	if err := assertOrdered(cashRecords); err != nil {
		return nil, err
	}
	if err := assertOrdered(investmentRecords); err != nil {
		return nil, err
	}

	type dealingFee struct {
		record  map[string]string
		matched bool
	}
	var fees []*dealingFee
	for _, r := range cashRecords {
		if strings.HasPrefix(r["Details"], "ETF dealing fee") {
			fees = append(fees, &dealingFee{record: r})
		}
	}

	byAsset := make(map[string]*AssetTrades)
	var assetOrder []string

	for _, r := range investmentRecords {
		var kind model.TradeType
		details := r["TransactionDetails"]
		switch {
		case strings.HasPrefix(details, "Bought"):
			kind = model.Buy
		case strings.HasPrefix(details, "Sold"):
			kind = model.Sell
		default:
			continue
		}

		name := r["InvestmentName"]
		group, ok := byAsset[name]
		if !ok {
			group = &AssetTrades{
				Asset:    asset.Unit{Name: name},
				Currency: currency.GBP,
			}
			byAsset[name] = group
			assetOrder = append(assetOrder, name)
		}

		date, err := parseVanguardDate(r["Date"])
		if err != nil {
			return nil, err
		}

		// An associated dealing fee sits in the cash section up to a week
		// before the investment row, keyed by side and investment name.
		feeDetails := fmt.Sprintf("ETF dealing fee (%s) %s", strings.ToLower(string(kind)), name)
		fee := money.Zero
		for _, f := range fees {
			if f.matched || f.record["Details"] != feeDetails {
				continue
			}
			feeDate, err := parseVanguardDate(f.record["Date"])
			if err != nil {
				return nil, err
			}
			if d := dateDaysBetween(feeDate, date); d >= 0 && d < dealingFeeWindowDays {
				f.matched = true
				if fee, err = money.Parse(f.record["Amount"]); err != nil {
					return nil, err
				}
				fee = fee.Abs()
				break
			}
		}

		qty, err := money.Parse(r["Quantity"])
		if err != nil {
			return nil, err
		}
		total, err := money.Parse(r["Cost"])
		if err != nil {
			return nil, err
		}

		group.Trades = append(group.Trades, model.Trade{
			ID:          uuid.NewString(),
			Date:        date,
			DateOnly:    true,
			Type:        kind,
			Quantity:    qty.Abs(),
			Total:       total.Abs(),
			Fee:         fee,
			Description: details,
			Raw:         []map[string]string{r},
		})
	}

	out := make([]AssetTrades, 0, len(assetOrder))
	for _, name := range assetOrder {
		out = append(out, *byAsset[name])
	}
	return out, nil
}

// collectSection returns the lines from the one matching start up to, but not
// including, the one matching end.
func collectSection(lines []string, start, end *regexp.Regexp) []string {
	var section []string
	collecting := false
	for _, line := range lines {
		switch {
		case !collecting && start.MatchString(line):
			collecting = true
			section = append(section, line)
		case collecting && end.MatchString(line):
			return section
		case collecting:
			section = append(section, line)
		}
	}
	return section
}

// assertOrdered rejects sections whose first record postdates the last;
// everything downstream assumes ascending order.
func assertOrdered(records []map[string]string) error {
	if len(records) < 2 {
		return nil
	}
	first, err := parseVanguardDate(records[0]["Date"])
	if err != nil {
		return err
	}
	last, err := parseVanguardDate(records[len(records)-1]["Date"])
	if err != nil {
		return err
	}
	if first.After(last) {
		return fmt.Errorf("%w: records not in ascending date order (first %s, last %s)",
			apperrors.ErrMalformedInput,
			first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	return nil
}

// parseVanguardDate reads the statement's dd/mm/yyyy dates as day-anchored
// timestamps.
func parseVanguardDate(s string) (time.Time, error) {
	d, err := time.Parse("02/01/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparsable date %q", apperrors.ErrMalformedInput, s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC), nil
}

func reverse(records []map[string]string) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
