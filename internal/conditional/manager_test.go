package conditional

import (
	"context"
	"errors"
	"strings"
	"testing"

	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
	"omnitrade/internal/store"
)

func newTestManager(t *testing.T, mock *exchange.Mock, autoExecute bool) *Manager {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	registry := exchange.NewRegistry()
	registry.Add(mock)
	return NewManager(st, registry, "USDT", autoExecute)
}

func marketBuy(amount float64) model.OrderSpec {
	return model.OrderSpec{Side: model.TradeBuy, Type: model.OrderMarket, Amount: amount}
}

func TestAdd_SnapshotsBasePrice(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 100)
	m := newTestManager(t, mock, false)

	cond := model.TriggerCondition{
		Type:          model.CondPriceChangePercent,
		PercentChange: 5,
		Direction:     model.DirectionDown,
	}
	order, err := m.Add(context.Background(), "btc", "mock", cond, marketBuy(0.1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if order.Condition.BasePrice != 100 {
		t.Errorf("expected base price snapshotted at 100, got %v", order.Condition.BasePrice)
	}
	if order.Symbol != "BTC/USDT" {
		t.Errorf("expected normalized symbol, got %s", order.Symbol)
	}
	if !order.Enabled || order.Triggered {
		t.Errorf("expected enabled untriggered rule, got %+v", order)
	}
}

func TestAdd_Validation(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 100)
	m := newTestManager(t, mock, false)
	ctx := context.Background()

	cases := []struct {
		name string
		cond model.TriggerCondition
		spec model.OrderSpec
	}{
		{"unknown condition type", model.TriggerCondition{Type: "trailing_stop"}, marketBuy(1)},
		{"non-positive target", model.TriggerCondition{Type: model.CondPriceAbove}, marketBuy(1)},
		{"non-positive percent", model.TriggerCondition{Type: model.CondPriceChangePercent, Direction: model.DirectionUp}, marketBuy(1)},
		{"unknown direction", model.TriggerCondition{Type: model.CondPriceChangePercent, PercentChange: 5, Direction: "sideways"}, marketBuy(1)},
		{"unknown side", model.TriggerCondition{Type: model.CondPriceAbove, TargetPrice: 100}, model.OrderSpec{Side: "hold", Type: model.OrderMarket, Amount: 1}},
		{"non-positive amount", model.TriggerCondition{Type: model.CondPriceAbove, TargetPrice: 100}, marketBuy(0)},
		{"limit without price", model.TriggerCondition{Type: model.CondPriceAbove, TargetPrice: 100}, model.OrderSpec{Side: model.TradeBuy, Type: model.OrderLimit, Amount: 1}},
	}
	for _, tt := range cases {
		if _, err := m.Add(ctx, "BTC", "mock", tt.cond, tt.spec); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestCheck_PercentChangeDown(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 100)
	m := newTestManager(t, mock, false)

	cond := model.TriggerCondition{
		Type:          model.CondPriceChangePercent,
		PercentChange: 5,
		Direction:     model.DirectionDown,
	}
	if _, err := m.Add(context.Background(), "BTC", "mock", cond, marketBuy(0.1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	// -4% is not enough.
	mock.SetPrice("BTC/USDT", 96)
	triggered, err := m.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 0 {
		t.Fatalf("expected no trigger at -4%%, got %d", len(triggered))
	}

	// -6% crosses the threshold.
	mock.SetPrice("BTC/USDT", 94)
	triggered, err = m.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("expected trigger at -6%%, got %d", len(triggered))
	}
}

func TestCheck_TriggerConsumedOnOrderFailure(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 100)
	// auto-execution off: placement fails, but the trigger is still consumed.
	m := newTestManager(t, mock, false)

	cond := model.TriggerCondition{Type: model.CondPriceAbove, TargetPrice: 90}
	if _, err := m.Add(context.Background(), "BTC", "mock", cond, marketBuy(0.1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	triggered, err := m.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(triggered))
	}
	o := triggered[0]
	if !o.Triggered {
		t.Error("expected triggered state")
	}
	if o.OrderID != "" {
		t.Errorf("expected no order id, got %q", o.OrderID)
	}
	if !strings.Contains(o.Error, model.ErrAuthorizationRequired.Error()) {
		t.Errorf("expected authorization failure recorded, got %q", o.Error)
	}

	// Consumed: never fires again.
	again, err := m.Check(context.Background())
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no re-trigger, got %d", len(again))
	}
}

func TestCheck_PlacesMarketOrderWhenAuthorized(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 100)
	m := newTestManager(t, mock, true)

	cond := model.TriggerCondition{Type: model.CondPriceBelow, TargetPrice: 110}
	if _, err := m.Add(context.Background(), "BTC", "mock", cond, marketBuy(0.1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	triggered, err := m.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(triggered))
	}
	if triggered[0].OrderID == "" || triggered[0].Error != "" {
		t.Errorf("expected successful placement, got %+v", triggered[0])
	}

	orders := mock.Orders()
	if len(orders) != 1 || orders[0].Type != model.OrderMarket || orders[0].Side != model.TradeBuy {
		t.Errorf("expected one market buy, got %+v", orders)
	}
}

func TestCheck_PlacesLimitOrder(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("ETH/USDT", 3000)
	m := newTestManager(t, mock, true)

	cond := model.TriggerCondition{Type: model.CondPriceAbove, TargetPrice: 2900}
	spec := model.OrderSpec{Side: model.TradeSell, Type: model.OrderLimit, Amount: 1, Price: 3100}
	if _, err := m.Add(context.Background(), "ETH", "mock", cond, spec); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := m.Check(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}
	orders := mock.Orders()
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].Type != model.OrderLimit || orders[0].Price != 3100 {
		t.Errorf("expected limit order at 3100, got %+v", orders[0])
	}
}

func TestToggle_DisabledRuleNotChecked(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 100)
	m := newTestManager(t, mock, false)

	cond := model.TriggerCondition{Type: model.CondPriceAbove, TargetPrice: 90}
	order, err := m.Add(context.Background(), "BTC", "mock", cond, marketBuy(0.1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Toggle(order.ID, false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	triggered, err := m.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(triggered) != 0 {
		t.Errorf("expected disabled rule to be skipped, got %d", len(triggered))
	}

	if err := m.Toggle("missing", true); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 100)
	m := newTestManager(t, mock, false)

	cond := model.TriggerCondition{Type: model.CondPriceAbove, TargetPrice: 200}
	order, err := m.Add(context.Background(), "BTC", "mock", cond, marketBuy(0.1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := m.Remove(order.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.Remove(order.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
