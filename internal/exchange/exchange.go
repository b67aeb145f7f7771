package exchange

import (
	"context"

	"omnitrade/internal/model"
)

// Exchange is the narrow capability surface the core logic depends on.
// Symbols are passed in normalized "BASE/QUOTE" form; adapters convert
// to their wire spelling internally.
type Exchange interface {
	Name() string
	FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error)
	FetchOHLCV(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error)
	FetchBalance(ctx context.Context) (model.Balance, error)
	CreateMarketBuyOrder(ctx context.Context, symbol string, amount float64) (*model.Order, error)
	CreateMarketSellOrder(ctx context.Context, symbol string, amount float64) (*model.Order, error)
	CreateLimitOrder(ctx context.Context, symbol string, side model.TradeSide, amount, price float64) (*model.Order, error)
}

// Trader is implemented by adapters that can report whether valid
// trading credentials are configured. Adapters without credentials can
// still serve public market data.
type Trader interface {
	CanTrade() bool
}
