package engine_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/currency"
	"github.com/s104tools/cgtcalc/internal/engine"
	"github.com/s104tools/cgtcalc/internal/model"
	"github.com/s104tools/cgtcalc/internal/testutil"
)

// TestConsolidate tests same-day trade aggregation.
//
// WHY: HMRC's same-day rule treats all of a day's acquisitions as one
// acquisition and all of its disposals as one disposal; the engine's matching
// phases rely on the consolidator having merged and ordered trades this way.
func TestConsolidate(t *testing.T) {
	newEngine := func() *engine.Engine {
		return engine.New(asset.Unit{Name: "Test Fund"}, currency.GBP)
	}
	dec := decimal.RequireFromString

	t.Run("merges same-day same-type trades", func(t *testing.T) {
		trades := []model.Trade{
			testutil.NewBuy("2021-05-10", "50", "500").WithFee("2").Build(),
			testutil.NewBuy("2021-05-10", "70", "770").WithFee("3").Build(),
		}

		out := newEngine().Consolidate(trades)
		if len(out) != 1 {
			t.Fatalf("Consolidate() returned %d trades, want 1", len(out))
		}

		merged := out[0]
		if !merged.Quantity.Equal(dec("120")) {
			t.Errorf("Quantity = %s, want 120", merged.Quantity)
		}
		if !merged.Total.Equal(dec("1270")) {
			t.Errorf("Total = %s, want 1270", merged.Total)
		}
		if !merged.Fee.Equal(dec("5")) {
			t.Errorf("Fee = %s, want 5", merged.Fee)
		}
		if !strings.Contains(merged.Description, "2 acquisitions") {
			t.Errorf("Description = %q, want mention of \"2 acquisitions\"", merged.Description)
		}
		if !merged.DateOnly {
			t.Error("consolidated trade should lose intra-day time precision")
		}
		if merged.ID == trades[0].ID || merged.ID == trades[1].ID {
			t.Error("consolidated trade should get a fresh synthetic id")
		}
		if len(merged.Raw) != 2 {
			t.Errorf("Raw carries %d records, want 2", len(merged.Raw))
		}
	})

	t.Run("describes merged disposals as disposals", func(t *testing.T) {
		trades := []model.Trade{
			testutil.NewSell("2021-05-10", "10", "100").Build(),
			testutil.NewSell("2021-05-10", "20", "210").Build(),
		}

		out := newEngine().Consolidate(trades)
		if len(out) != 1 {
			t.Fatalf("Consolidate() returned %d trades, want 1", len(out))
		}
		if !strings.Contains(out[0].Description, "2 disposals") {
			t.Errorf("Description = %q, want mention of \"2 disposals\"", out[0].Description)
		}
	})

	t.Run("orders a day's disposals ahead of its acquisitions", func(t *testing.T) {
		trades := []model.Trade{
			testutil.NewBuy("2021-05-10", "100", "500").Build(),
			testutil.NewSell("2021-05-10", "100", "600").Build(),
			testutil.NewBuy("2021-05-09", "10", "50").Build(),
		}

		out := newEngine().Consolidate(trades)
		if len(out) != 3 {
			t.Fatalf("Consolidate() returned %d trades, want 3", len(out))
		}
		if out[0].Type != model.Buy || !out[0].Date.Before(out[1].Date) {
			t.Errorf("first trade should be the earlier day's buy, got %s on %s", out[0].Type, out[0].Date)
		}
		if out[1].Type != model.Sell {
			t.Errorf("same-day sell should sort before the buy, got %s", out[1].Type)
		}
		if out[2].Type != model.Buy {
			t.Errorf("same-day buy should sort last, got %s", out[2].Type)
		}
	})

	t.Run("passes single trades through unchanged", func(t *testing.T) {
		trade := testutil.NewBuy("2021-05-10", "50", "500").WithDescription("original").Build()

		out := newEngine().Consolidate([]model.Trade{trade})
		if len(out) != 1 {
			t.Fatalf("Consolidate() returned %d trades, want 1", len(out))
		}
		if out[0].ID != trade.ID || out[0].Description != "original" {
			t.Errorf("single trade was altered: %+v", out[0])
		}
	})
}
