package rebalance

import (
	"errors"
	"math"
	"testing"

	"omnitrade/internal/model"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestCreatePlan_SixtyForty(t *testing.T) {
	targets := map[string]float64{"BTC": 60, "ETH": 40}
	balances := model.Balance{"BTC": 0.1, "ETH": 1, "USDT": 2000}
	prices := map[string]float64{"BTC": 50000, "ETH": 3000}
	// total = 5000 + 3000 + 2000
	plan, err := CreatePlan(targets, balances, prices, 10000)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if len(plan.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(plan.Trades))
	}
	// Sorted asset iteration: BTC first.
	btc := plan.Trades[0]
	if btc.Symbol != "BTC/USDT" || btc.Side != model.TradeBuy {
		t.Errorf("expected BTC/USDT buy, got %+v", btc)
	}
	if !approx(btc.Amount, 1000.0/50000) {
		t.Errorf("expected BTC amount 0.02, got %v", btc.Amount)
	}
	if !approx(btc.EstimatedCost, 1000) {
		t.Errorf("expected BTC cost 1000, got %v", btc.EstimatedCost)
	}
	eth := plan.Trades[1]
	if eth.Symbol != "ETH/USDT" || eth.Side != model.TradeBuy {
		t.Errorf("expected ETH/USDT buy, got %+v", eth)
	}
	if !approx(eth.EstimatedCost, 1000) {
		t.Errorf("expected ETH cost 1000, got %v", eth.EstimatedCost)
	}

	if len(plan.Allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(plan.Allocations))
	}
	if plan.Allocations[0].Action != model.ActionBuy {
		t.Errorf("expected buy action, got %s", plan.Allocations[0].Action)
	}
}

func TestCreatePlan_SellSide(t *testing.T) {
	targets := map[string]float64{"BTC": 20, "ETH": 80}
	balances := model.Balance{"BTC": 0.1, "ETH": 1, "USDT": 2000}
	prices := map[string]float64{"BTC": 50000, "ETH": 3000}

	plan, err := CreatePlan(targets, balances, prices, 10000)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	// BTC holds 5000, target 2000: sell 3000 worth.
	if plan.Trades[0].Side != model.TradeSell {
		t.Errorf("expected BTC sell, got %s", plan.Trades[0].Side)
	}
	if !approx(plan.Trades[0].Amount, 3000.0/50000) {
		t.Errorf("expected sell amount 0.06, got %v", plan.Trades[0].Amount)
	}
}

func TestCreatePlan_HoldInsideBand(t *testing.T) {
	// Deviation of 0.5% of total is inside the 1% no-trade band.
	targets := map[string]float64{"BTC": 50.5, "ETH": 49.5}
	balances := model.Balance{"BTC": 1, "ETH": 1, "USDT": 0}
	prices := map[string]float64{"BTC": 5000, "ETH": 5000}

	plan, err := CreatePlan(targets, balances, prices, 10000)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Trades) != 0 {
		t.Errorf("expected no trades inside the band, got %+v", plan.Trades)
	}
	for _, alloc := range plan.Allocations {
		if alloc.Action != model.ActionHold {
			t.Errorf("%s: expected hold, got %s", alloc.Asset, alloc.Action)
		}
	}
}

func TestCreatePlan_InvalidTargetSum(t *testing.T) {
	targets := map[string]float64{"BTC": 60, "ETH": 30}
	_, err := CreatePlan(targets, model.Balance{}, map[string]float64{"BTC": 1, "ETH": 1}, 1000)
	if !errors.Is(err, model.ErrInvalidTargets) {
		t.Errorf("expected ErrInvalidTargets, got %v", err)
	}

	// Sum within the 0.1 tolerance is accepted.
	okTargets := map[string]float64{"BTC": 60.05, "ETH": 40}
	if _, err := CreatePlan(okTargets, model.Balance{}, map[string]float64{"BTC": 1, "ETH": 1}, 1000); err != nil {
		t.Errorf("expected tolerance to accept 100.05, got %v", err)
	}
}

func TestCreatePlan_MissingPrice(t *testing.T) {
	targets := map[string]float64{"BTC": 60, "ETH": 40}
	_, err := CreatePlan(targets, model.Balance{}, map[string]float64{"BTC": 50000}, 1000)
	if !errors.Is(err, model.ErrMissingPrice) {
		t.Errorf("expected ErrMissingPrice, got %v", err)
	}
}

func TestPickQuote_PriorityOrder(t *testing.T) {
	tests := []struct {
		balances model.Balance
		want     string
	}{
		{model.Balance{"USDT": 100, "USDC": 100}, "USDT"},
		{model.Balance{"USDC": 100, "DAI": 50}, "USDC"},
		{model.Balance{"DAI": 50}, "DAI"},
		{model.Balance{"BTC": 1}, "USDT"},
		{model.Balance{}, "USDT"},
	}
	for _, tt := range tests {
		if got := pickQuote(tt.balances); got != tt.want {
			t.Errorf("pickQuote(%v) = %s, want %s", tt.balances, got, tt.want)
		}
	}
}

func TestCreatePlan_QuoteFromBalances(t *testing.T) {
	targets := map[string]float64{"BTC": 100}
	balances := model.Balance{"USDC": 10000}
	prices := map[string]float64{"BTC": 50000}

	plan, err := CreatePlan(targets, balances, prices, 10000)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Trades) != 1 || plan.Trades[0].Symbol != "BTC/USDC" {
		t.Errorf("expected BTC/USDC pair, got %+v", plan.Trades)
	}
}
