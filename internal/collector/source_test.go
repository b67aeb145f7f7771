package collector

import (
	"context"
	"errors"
	"testing"

	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
)

func TestCurrentPrice_NormalizesAndReturnsLast(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 50000)
	src := NewPriceSource(mock, "USDT")

	for _, spelling := range []string{"btc", "BTCUSDT", "BTC/USDT"} {
		price, err := src.CurrentPrice(context.Background(), spelling)
		if err != nil {
			t.Fatalf("%s: %v", spelling, err)
		}
		if price != 50000 {
			t.Errorf("%s: expected 50000, got %v", spelling, price)
		}
	}
}

func TestCurrentPrice_FetchFailure(t *testing.T) {
	mock := &exchange.Mock{TickerErr: errors.New("api down")}
	src := NewPriceSource(mock, "USDT")

	_, err := src.CurrentPrice(context.Background(), "BTC")
	if !errors.Is(err, model.ErrPriceUnavailable) {
		t.Errorf("expected ErrPriceUnavailable, got %v", err)
	}
}

func TestCurrentPrice_NonPositiveLast(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 0)
	src := NewPriceSource(mock, "USDT")

	_, err := src.CurrentPrice(context.Background(), "BTC")
	if !errors.Is(err, model.ErrPriceUnavailable) {
		t.Errorf("expected ErrPriceUnavailable for zero price, got %v", err)
	}
}

func TestTicker24h(t *testing.T) {
	mock := &exchange.Mock{
		Tickers: map[string]model.Ticker{
			"BTC/USDT": {Symbol: "BTC/USDT", Last: 50000, ChangePct: 2.5, Volume: 1200000},
		},
	}
	src := NewPriceSource(mock, "USDT")

	data, err := src.Ticker24h(context.Background(), "btc")
	if err != nil {
		t.Fatalf("ticker24h: %v", err)
	}
	if data.Symbol != "BTC/USDT" || data.Price != 50000 {
		t.Errorf("unexpected data %+v", data)
	}
	if data.Change24h != 2.5 || data.Volume24h != 1200000 {
		t.Errorf("expected 24h fields carried over, got %+v", data)
	}
}
