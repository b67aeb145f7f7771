package rebalance

import (
	"context"
	"log"

	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
)

// Executor submits plan trades as market orders. Execution is gated by
// the global auto-execute flag; without it every call fails before any
// order is placed.
type Executor struct {
	registry    *exchange.Registry
	autoExecute bool
}

// NewExecutor creates an Executor. autoExecute mirrors the
// configuration flag; it defaults to off so rebalances require an
// explicit opt-in.
func NewExecutor(registry *exchange.Registry, autoExecute bool) *Executor {
	return &Executor{registry: registry, autoExecute: autoExecute}
}

// Execute submits every plan trade on the named exchange. Trades are
// independent: a failure is recorded and the remaining trades still
// run, so a partial rebalance is possible and reported as such.
func (e *Executor) Execute(ctx context.Context, exchangeName string, plan *model.RebalancePlan) ([]model.TradeResult, error) {
	if !e.autoExecute {
		return nil, model.ErrAuthorizationRequired
	}
	ex, err := e.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}

	results := make([]model.TradeResult, 0, len(plan.Trades))
	for _, t := range plan.Trades {
		result := model.TradeResult{Symbol: t.Symbol, Side: t.Side, Amount: t.Amount}

		var order *model.Order
		var placeErr error
		if t.Side == model.TradeBuy {
			order, placeErr = ex.CreateMarketBuyOrder(ctx, t.Symbol, t.Amount)
		} else {
			order, placeErr = ex.CreateMarketSellOrder(ctx, t.Symbol, t.Amount)
		}
		if placeErr != nil {
			result.Error = placeErr.Error()
			log.Printf("[ERROR] rebalance %s %s: %v", t.Side, t.Symbol, placeErr)
		} else {
			result.Success = true
			result.OrderID = order.ID
		}
		results = append(results, result)
	}
	return results, nil
}
