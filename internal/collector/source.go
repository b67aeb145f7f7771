package collector

import (
	"context"
	"fmt"

	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
)

// PriceSource reads normalized market data from one exchange adapter.
// It owns symbol spelling: callers may pass "btc", "BTCUSDT" or
// "BTC/USDT" interchangeably.
type PriceSource struct {
	Exchange exchange.Exchange
	Quote    string // default quote asset, e.g. "USDT"
}

// NewPriceSource creates a PriceSource with the given default quote.
func NewPriceSource(ex exchange.Exchange, quote string) *PriceSource {
	if quote == "" {
		quote = "USDT"
	}
	return &PriceSource{Exchange: ex, Quote: quote}
}

// Normalize applies the source's default quote to a symbol spelling.
func (p *PriceSource) Normalize(symbol string) string {
	return NormalizeSymbol(symbol, p.Quote)
}

// CurrentPrice returns the last traded price for an asset or pair.
// A failed fetch or non-positive price is ErrPriceUnavailable.
func (p *PriceSource) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	pair := p.Normalize(symbol)
	ticker, err := p.Exchange.FetchTicker(ctx, pair)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %v", pair, model.ErrPriceUnavailable, err)
	}
	if ticker.Last <= 0 {
		return 0, fmt.Errorf("%s: %w: non-positive last price", pair, model.ErrPriceUnavailable)
	}
	return ticker.Last, nil
}

// Ticker24h returns the 24h price summary for one symbol.
func (p *PriceSource) Ticker24h(ctx context.Context, symbol string) (*model.PriceData, error) {
	pair := p.Normalize(symbol)
	ticker, err := p.Exchange.FetchTicker(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", pair, model.ErrPriceUnavailable, err)
	}
	return &model.PriceData{
		Symbol:    pair,
		Price:     ticker.Last,
		Change24h: ticker.ChangePct,
		Volume24h: ticker.Volume,
	}, nil
}

// Klines returns candle bars for one symbol.
func (p *PriceSource) Klines(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	pair := p.Normalize(symbol)
	bars, err := p.Exchange.FetchOHLCV(ctx, pair, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch klines %s: %w", pair, err)
	}
	return bars, nil
}
