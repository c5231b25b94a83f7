// Package taxyear buckets disposals into UK tax years. A UK tax year runs
// 6 April to 5 April and is labelled "YYYY/YY", so a disposal on 5 April 2021
// falls in "2020/21" and one on 6 April 2021 falls in "2021/22".
package taxyear

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/model"
)

// FromDate returns the tax year label for a disposal date.
func FromDate(date time.Time) string {
	start := date.Year()
	boundary := time.Date(start, time.April, 6, 0, 0, 0, 0, date.Location())
	if date.Before(boundary) {
		start--
	}
	return fmt.Sprintf("%d/%02d", start, (start+1)%100)
}

// Summary accumulates per-year disposal statistics.
type Summary struct {
	NumberOfDisposals int             `json:"numberOfDisposals"`
	DisposalProceeds  decimal.Decimal `json:"disposalProceeds"`
	AllowableCosts    decimal.Decimal `json:"allowableCosts"`
	GainsInYear       decimal.Decimal `json:"gainsInYear"`
}

// Aggregate buckets disposals by tax year and returns the per-year summaries
// together with the grand-total gain across all years. Disposal records are
// read only, never mutated.
func Aggregate(disposals []model.Disposal) (map[string]Summary, decimal.Decimal) {
	years := make(map[string]Summary)
	totalGain := decimal.Zero

	for _, d := range disposals {
		s := years[d.TaxYear]
		s.NumberOfDisposals++
		s.DisposalProceeds = s.DisposalProceeds.Add(d.Proceeds)
		s.AllowableCosts = s.AllowableCosts.Add(d.AllowableCost)
		s.GainsInYear = s.GainsInYear.Add(d.Gain)
		years[d.TaxYear] = s

		totalGain = totalGain.Add(d.Gain)
	}

	return years, totalGain
}
