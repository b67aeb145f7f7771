package dca

import (
	"context"

	"omnitrade/internal/exchange"
)

// Executor places the periodic market buy for one schedule. The two
// implementations make the real-vs-simulated branch an explicit
// contract: accounting advances the same way through either.
type Executor interface {
	Name() string
	Execute(ctx context.Context, symbol string, quantity float64) (orderID string, err error)
}

// RealExecutor submits a market buy on a credentialed exchange.
type RealExecutor struct {
	ex exchange.Exchange
}

// NewRealExecutor wraps an exchange adapter.
func NewRealExecutor(ex exchange.Exchange) *RealExecutor {
	return &RealExecutor{ex: ex}
}

func (e *RealExecutor) Name() string { return "real" }

func (e *RealExecutor) Execute(ctx context.Context, symbol string, quantity float64) (string, error) {
	order, err := e.ex.CreateMarketBuyOrder(ctx, symbol, quantity)
	if err != nil {
		return "", err
	}
	return order.ID, nil
}

// SimulatedExecutor places no order and moves no funds; it exists so
// schedules keep their cadence when no trading credentials are
// configured for the target exchange.
type SimulatedExecutor struct{}

func (SimulatedExecutor) Name() string { return "simulated" }

func (SimulatedExecutor) Execute(_ context.Context, _ string, _ float64) (string, error) {
	return "", nil
}

// executorFor selects the executor for an exchange adapter: real when
// the adapter holds trading credentials and auto-execution is enabled,
// simulated otherwise.
func executorFor(ex exchange.Exchange, autoExecute bool) Executor {
	if trader, ok := ex.(exchange.Trader); ok && trader.CanTrade() && autoExecute {
		return NewRealExecutor(ex)
	}
	return SimulatedExecutor{}
}
