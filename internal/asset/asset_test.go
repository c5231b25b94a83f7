package asset_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/asset"
)

// TestFormatWithUnit tests quantity rendering across the asset kinds.
//
// WHY: The report is the user-facing artefact; precision and unit labels are
// how a crypto holding reads differently from a share count.
func TestFormatWithUnit(t *testing.T) {
	tests := []struct {
		name string
		a    asset.Asset
		qty  string
		want string
	}{
		{"crypto keeps eight places", asset.Crypto{Symbol: "BTC"}, "0.5", "0.50000000 BTC"},
		{"crypto whole coin", asset.Crypto{Symbol: "BTC"}, "2", "2.00000000 BTC"},
		{"shares are whole numbers", asset.Share{Name: "Test plc"}, "12000", "12000 shares"},
		{"single share is singular", asset.Share{Name: "Test plc"}, "1", "1 share"},
		{"zero shares stays plural", asset.Share{Name: "Test plc"}, "0", "0 shares"},
		{"fund units keep two places", asset.Unit{Name: "Index fund"}, "104.5", "104.50 units"},
		{"single unit is singular", asset.Unit{Name: "Index fund"}, "1", "1.00 unit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty := decimal.RequireFromString(tt.qty)
			if got := tt.a.FormatWithUnit(qty); got != tt.want {
				t.Errorf("FormatWithUnit(%s) = %q, want %q", tt.qty, got, tt.want)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	tests := []struct {
		a    asset.Asset
		want string
	}{
		{asset.Crypto{Symbol: "BTC"}, "BTC quantity"},
		{asset.Share{Name: "Test plc"}, "Number of shares"},
		{asset.Unit{Name: "Index fund"}, "Number of units"},
	}

	for _, tt := range tests {
		if got := tt.a.Header(); got != tt.want {
			t.Errorf("Header() = %q, want %q", got, tt.want)
		}
	}
}
