package inputformat_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/s104tools/cgtcalc/internal/asset"
	"github.com/s104tools/cgtcalc/internal/inputformat"
	"github.com/s104tools/cgtcalc/internal/model"
)

const coinbaseInput = `Transactions
User,Someone,abc-123
ID,Timestamp,Transaction Type,Asset,Quantity Transacted,Price Currency,Price at Transaction,Subtotal,Total (inclusive of fees and/or spread),Fees and/or Spread,Notes
tx-sell,2021-03-02 10:30:00 UTC,Advanced trade sell,BTC,-0.25,GBP,36000,9000,8950,50,Sold 0.25 BTC
tx-reward,2021-02-01 12:00:00 UTC,Reward Income,BTC,0.001,GBP,25000,25,25,0,Learning reward
tx-eth,2021-02-15 12:00:00 UTC,Buy,ETH,1,GBP,1000,1000,1010,10,Bought 1 ETH
tx-buy,2021-01-11 09:00:00 UTC,Buy,BTC,0.5,GBP,20000,10000,10100,100,Bought 0.5 BTC
`

// TestCoinbaseExtractAssetTrades tests parsing the Coinbase transaction
// export.
//
// WHY: The export mixes fills with rewards and other assets, quotes
// quantities negative on sales, and states totals inclusive of fees; each of
// those quirks has to be undone here, not in the matcher.
func TestCoinbaseExtractAssetTrades(t *testing.T) {
	groups, err := inputformat.Coinbase{}.ExtractAssetTrades(coinbaseInput)
	if err != nil {
		t.Fatalf("ExtractAssetTrades() returned unexpected error: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}

	group := groups[0]
	crypto, ok := group.Asset.(asset.Crypto)
	if !ok || crypto.Symbol != "BTC" {
		t.Errorf("asset = %#v, want Crypto{BTC}", group.Asset)
	}

	// Reward and non-BTC rows are dropped; fills come back date-ascending
	// even though the export is not.
	if len(group.Trades) != 2 {
		t.Fatalf("trades = %d, want 2", len(group.Trades))
	}

	buy := group.Trades[0]
	if buy.ID != "tx-buy" {
		t.Errorf("trades[0].ID = %s, want tx-buy (sorted by date)", buy.ID)
	}
	if buy.Type != model.Buy {
		t.Errorf("type = %s, want BUY", buy.Type)
	}
	if !buy.Date.Equal(time.Date(2021, time.January, 11, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %s, want 2021-01-11 09:00 UTC", buy.Date)
	}
	if !buy.Total.Equal(decimal.RequireFromString("10100")) {
		t.Errorf("total = %s, want 10100", buy.Total)
	}
	if !buy.Fee.Equal(decimal.RequireFromString("100")) {
		t.Errorf("fee = %s, want 100", buy.Fee)
	}
	if !buy.TotalNetFee {
		t.Error("TotalNetFee = false, want true: export totals include fees")
	}
	if buy.Description != "Bought 0.5 BTC" {
		t.Errorf("description = %q, want the Notes column", buy.Description)
	}

	sell := group.Trades[1]
	if sell.Type != model.Sell {
		t.Errorf("type = %s, want SELL (normalized from %q)", sell.Type, "Advanced trade sell")
	}
	if !sell.Quantity.Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("quantity = %s, want 0.25 (absolute)", sell.Quantity)
	}
	if !sell.Total.Equal(decimal.RequireFromString("8950")) {
		t.Errorf("total = %s, want 8950", sell.Total)
	}
}

func TestCoinbaseMatches(t *testing.T) {
	t.Run("tolerates a leading blank line", func(t *testing.T) {
		if !(inputformat.Coinbase{}).Matches("\n" + coinbaseInput) {
			t.Error("Matches() = false, want true")
		}
	})

	t.Run("rejects other csv files", func(t *testing.T) {
		if (inputformat.Coinbase{}).Matches(genericInput) {
			t.Error("Matches() = true, want false")
		}
	})
}
