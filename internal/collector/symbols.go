package collector

import "strings"

// quoteAssets are the quote spellings recognized when splitting a
// compact symbol like "BTCUSDT". Order matters: longer suffixes first.
var quoteAssets = []string{"USDT", "USDC", "BUSD", "TUSD", "DAI", "BTC", "ETH"}

// NormalizeSymbol converts common symbol spellings to "BASE/QUOTE":
//
//	"btc"      -> "BTC/USDT" (defaultQuote applied)
//	"BTCUSDT"  -> "BTC/USDT"
//	"btc/usdt" -> "BTC/USDT"
func NormalizeSymbol(symbol, defaultQuote string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return s
	}
	if strings.Contains(s, "/") {
		return s
	}
	for _, quote := range quoteAssets {
		if strings.HasSuffix(s, quote) && len(s) > len(quote) {
			return s[:len(s)-len(quote)] + "/" + quote
		}
	}
	if defaultQuote == "" {
		defaultQuote = "USDT"
	}
	return s + "/" + strings.ToUpper(defaultQuote)
}

// BaseAsset returns the base asset of a normalized pair ("BTC/USDT" -> "BTC").
func BaseAsset(symbol string) string {
	if i := strings.Index(symbol, "/"); i > 0 {
		return symbol[:i]
	}
	return symbol
}

// QuoteAsset returns the quote asset of a normalized pair, or "" when
// the symbol has no quote part.
func QuoteAsset(symbol string) string {
	if i := strings.Index(symbol, "/"); i >= 0 && i+1 < len(symbol) {
		return symbol[i+1:]
	}
	return ""
}
