package exchange

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"omnitrade/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	ExchangeName string
	Tickers      map[string]model.Ticker // keyed by normalized symbol
	Balances     model.Balance
	Bars         []model.OHLCV
	TickerErr    error // returned by FetchTicker for every symbol
	OrderErr     error // returned by every order placement
	Tradable     bool

	mu      sync.Mutex
	orders  []model.Order
	orderID int
}

func (m *Mock) Name() string {
	if m.ExchangeName == "" {
		return "mock"
	}
	return m.ExchangeName
}

func (m *Mock) CanTrade() bool { return m.Tradable }

// SetPrice installs a ticker whose last/bid/ask all equal price.
func (m *Mock) SetPrice(symbol string, price float64) {
	if m.Tickers == nil {
		m.Tickers = make(map[string]model.Ticker)
	}
	m.Tickers[symbol] = model.Ticker{Symbol: symbol, Last: price, Bid: price, Ask: price}
}

// Orders returns every order placed so far.
func (m *Mock) Orders() []model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

func (m *Mock) FetchTicker(_ context.Context, symbol string) (*model.Ticker, error) {
	if m.TickerErr != nil {
		return nil, m.TickerErr
	}
	t, ok := m.Tickers[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: no ticker for %s", m.Name(), symbol)
	}
	return &t, nil
}

func (m *Mock) FetchOHLCV(_ context.Context, _, _ string, limit int) ([]model.OHLCV, error) {
	if limit > 0 && limit < len(m.Bars) {
		return m.Bars[len(m.Bars)-limit:], nil
	}
	return m.Bars, nil
}

func (m *Mock) FetchBalance(_ context.Context) (model.Balance, error) {
	if m.Balances == nil {
		return model.Balance{}, nil
	}
	return m.Balances, nil
}

func (m *Mock) record(symbol string, side model.TradeSide, typ model.OrderType, amount, price float64) (*model.Order, error) {
	if m.OrderErr != nil {
		return nil, m.OrderErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderID++
	order := model.Order{
		ID:     strconv.Itoa(m.orderID),
		Symbol: symbol,
		Side:   side,
		Type:   typ,
		Amount: amount,
		Price:  price,
	}
	m.orders = append(m.orders, order)
	return &order, nil
}

func (m *Mock) CreateMarketBuyOrder(_ context.Context, symbol string, amount float64) (*model.Order, error) {
	return m.record(symbol, model.TradeBuy, model.OrderMarket, amount, 0)
}

func (m *Mock) CreateMarketSellOrder(_ context.Context, symbol string, amount float64) (*model.Order, error) {
	return m.record(symbol, model.TradeSell, model.OrderMarket, amount, 0)
}

func (m *Mock) CreateLimitOrder(_ context.Context, symbol string, side model.TradeSide, amount, price float64) (*model.Order, error) {
	return m.record(symbol, side, model.OrderLimit, amount, price)
}
