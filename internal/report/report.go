// Package report renders the outcome of one processing run as a console
// report.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/currency"
	"github.com/s104tools/cgtcalc/internal/engine"
	"github.com/s104tools/cgtcalc/internal/model"
)

// Renderer writes a result for one asset pool.
type Renderer struct {
	Asset    asset.Asset
	Currency currency.Currency
}

// DisposalLine renders one disposal in the report's single-line form,
// e.g. "2020-08-30 | Sold 4000 shares | Gain/Loss £1650.00".
func (r Renderer) DisposalLine(d model.Disposal) string {
	return fmt.Sprintf("%s | Sold %s | Gain/Loss %s",
		d.Date.Format("2006-01-02"),
		r.Asset.FormatWithUnit(d.Quantity),
		r.Currency.Format(d.Gain))
}

// Render writes the full report: disposals, per-tax-year gains, the Section
// 104 holding and fee totals.
func (r Renderer) Render(w io.Writer, result *engine.Result) {
	fmt.Fprintln(w, "Disposals:")
	for _, d := range result.Disposals {
		fmt.Fprintln(w, r.DisposalLine(d))
	}

	years := make([]string, 0, len(result.TaxYears))
	for year := range result.TaxYears {
		years = append(years, year)
	}
	sort.Strings(years)
	for _, year := range years {
		summary := result.TaxYears[year]
		fmt.Fprintf(w, "Gains in %s: %s (%d disposals, proceeds %s, allowable costs %s)\n",
			year,
			r.Currency.Format(summary.GainsInYear),
			summary.NumberOfDisposals,
			r.Currency.Format(summary.DisposalProceeds),
			r.Currency.Format(summary.AllowableCosts))
	}
	fmt.Fprintf(w, "Total gain over timeframe: %s\n", r.Currency.Format(result.Gain))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Section 104 Pool:")
	fmt.Fprintf(w, "%s: %s\n", r.Asset.Header(), r.Asset.FormatBare(result.Pool.Quantity))
	fmt.Fprintf(w, "Cost: %s\n", r.Currency.Format(result.Pool.Cost))
	fmt.Fprintf(w, "Fees: %s\n", r.Currency.Format(result.Fees.Total()))
	fmt.Fprintf(w, "of which buy/sell: %s/%s\n",
		r.Currency.Format(result.Fees.Buy),
		r.Currency.Format(result.Fees.Sell))
}
