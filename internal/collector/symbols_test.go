package collector

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in    string
		quote string
		want  string
	}{
		{"btc", "USDT", "BTC/USDT"},
		{"BTC", "USDT", "BTC/USDT"},
		{"BTCUSDT", "USDT", "BTC/USDT"},
		{"btcusdt", "USDT", "BTC/USDT"},
		{"btc/usdt", "USDT", "BTC/USDT"},
		{"ETHBTC", "USDT", "ETH/BTC"},
		{"SOLUSDC", "USDT", "SOL/USDC"},
		{"eth", "USDC", "ETH/USDC"},
		{"eth", "", "ETH/USDT"},
		{" btc ", "USDT", "BTC/USDT"},
		{"", "USDT", ""},
		// "USDT" alone is an asset name, not a pair suffix.
		{"USDT", "USDT", "USDT/USDT"},
	}
	for _, tt := range tests {
		if got := NormalizeSymbol(tt.in, tt.quote); got != tt.want {
			t.Errorf("NormalizeSymbol(%q, %q) = %q, want %q", tt.in, tt.quote, got, tt.want)
		}
	}
}

func TestBaseQuoteAsset(t *testing.T) {
	if got := BaseAsset("BTC/USDT"); got != "BTC" {
		t.Errorf("BaseAsset = %q", got)
	}
	if got := BaseAsset("BTC"); got != "BTC" {
		t.Errorf("BaseAsset without quote = %q", got)
	}
	if got := QuoteAsset("BTC/USDT"); got != "USDT" {
		t.Errorf("QuoteAsset = %q", got)
	}
	if got := QuoteAsset("BTC"); got != "" {
		t.Errorf("QuoteAsset without quote = %q", got)
	}
}
