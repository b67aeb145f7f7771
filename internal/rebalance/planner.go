package rebalance

import (
	"fmt"
	"math"
	"sort"

	"omnitrade/internal/calculator"
	"omnitrade/internal/model"
)

const (
	// targetSumTolerance is the allowed absolute deviation of the
	// target percentages from 100.
	targetSumTolerance = 0.1
	// noTradeBand suppresses trades smaller than this fraction of the
	// total portfolio value, avoiding dust trades from rounding noise.
	noTradeBand = 0.01
)

// quotePriority orders the stablecoin quote currencies preferred when
// selecting a trading pair. The default quote applies when none of the
// held quote assets match.
var quotePriority = []string{"USDT", "USDC", "BUSD", "DAI"}

const defaultQuote = "USDT"

// pickQuote selects the quote currency for plan trades from the
// account's held assets, in stablecoin priority order.
func pickQuote(balances model.Balance) string {
	for _, quote := range quotePriority {
		if balances[quote] > 0 {
			return quote
		}
	}
	return defaultQuote
}

// CreatePlan derives the trade list that moves the portfolio from its
// current allocation to the target percentages. Deltas inside the
// no-trade band become holds. Prices are quoted in the stablecoin;
// totalValue is the full portfolio value including cash.
func CreatePlan(targets map[string]float64, balances model.Balance, prices map[string]float64, totalValue float64) (*model.RebalancePlan, error) {
	sum := 0.0
	for _, pct := range targets {
		sum += pct
	}
	if math.Abs(sum-100) > targetSumTolerance {
		return nil, fmt.Errorf("sum is %.2f: %w", sum, model.ErrInvalidTargets)
	}

	assets := make([]string, 0, len(targets))
	for asset := range targets {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	quote := pickQuote(balances)
	threshold := totalValue * noTradeBand

	plan := &model.RebalancePlan{TotalValue: totalValue}
	for _, asset := range assets {
		price := prices[asset]
		if price <= 0 {
			return nil, fmt.Errorf("%s: %w", asset, model.ErrMissingPrice)
		}

		currentValue := balances[asset] * price
		targetValue := totalValue * targets[asset] / 100
		difference := targetValue - currentValue

		alloc := model.AssetAllocation{
			Asset:          asset,
			TargetPercent:  targets[asset],
			CurrentPercent: calculator.Percent(currentValue, totalValue),
			CurrentValue:   currentValue,
			TargetValue:    targetValue,
			Action:         model.ActionHold,
		}

		if math.Abs(difference) > threshold {
			amount := math.Abs(difference) / price
			side := model.TradeBuy
			alloc.Action = model.ActionBuy
			if difference < 0 {
				side = model.TradeSell
				alloc.Action = model.ActionSell
			}
			alloc.TradeAmount = amount
			plan.Trades = append(plan.Trades, model.PlannedTrade{
				Symbol:        asset + "/" + quote,
				Side:          side,
				Amount:        amount,
				EstimatedCost: math.Abs(difference),
			})
		}
		plan.Allocations = append(plan.Allocations, alloc)
	}
	return plan, nil
}
