package tools

import (
	"context"
	"errors"
	"testing"

	"omnitrade/internal/alert"
	"omnitrade/internal/arbitrage"
	"omnitrade/internal/collector"
	"omnitrade/internal/conditional"
	"omnitrade/internal/dca"
	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
	"omnitrade/internal/portfolio"
	"omnitrade/internal/rebalance"
	"omnitrade/internal/recorder"
	"omnitrade/internal/store"
	"omnitrade/internal/wallet"
)

func newTestRegistry(t *testing.T) (*Registry, *exchange.Mock) {
	t.Helper()
	return newTestRegistryWith(t, recorder.NewNoopRecorder())
}

func newTestRegistryWith(t *testing.T, rec recorder.Recorder) (*Registry, *exchange.Mock) {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	mock := &exchange.Mock{}
	mock.SetPrice("BTC/USDT", 50000)
	registry := exchange.NewRegistry()
	registry.Add(mock)

	source := collector.NewPriceSource(mock, "USDT")
	walletMgr := wallet.NewManager(st, source, "USDT")

	svc := &Service{
		Source:       source,
		Wallet:       walletMgr,
		Valuator:     portfolio.NewValuator(walletMgr, source),
		History:      portfolio.NewHistory(st),
		Alerts:       alert.NewManager(st, registry, "USDT"),
		Conditionals: conditional.NewManager(st, registry, "USDT", false),
		DCA:          dca.NewManager(st, registry, "USDT", false),
		Arbitrage:    arbitrage.NewScanner(registry, "USDT", false),
		Rebalancer:   rebalance.NewExecutor(registry, false),
		Recorder:     rec,
		DataDir:      st.Dir(),
	}
	reg := NewRegistry()
	svc.RegisterAll(reg)
	return reg, mock
}

func TestCall_UnknownTool(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := reg.Call(context.Background(), "launch_rocket", nil)
	if result.Success {
		t.Error("expected failure for unknown tool")
	}
	if result.Error == "" {
		t.Error("expected error message")
	}
}

func TestList_ContainsRegisteredTools(t *testing.T) {
	reg, _ := newTestRegistry(t)

	names := reg.List()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	for _, want := range []string{"get_price", "paper_buy", "alert_create", "dca_create", "rebalance_preview", "arbitrage_scan", "daemon_status"} {
		if !seen[want] {
			t.Errorf("expected tool %q registered", want)
		}
	}
}

func TestGetPrice(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := reg.Call(context.Background(), "get_price", map[string]any{"symbol": "btc"})
	if !result.Success {
		t.Fatalf("get_price failed: %s", result.Error)
	}
	data := result.Data.(map[string]any)
	if data["symbol"] != "BTC/USDT" || data["price"] != 50000.0 {
		t.Errorf("unexpected data %+v", data)
	}

	missing := reg.Call(context.Background(), "get_price", map[string]any{})
	if missing.Success {
		t.Error("expected failure without symbol")
	}
}

func TestPaperBuy_ThenSummary(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	result := reg.Call(ctx, "paper_buy", map[string]any{"asset": "btc", "amount": 0.01})
	if !result.Success {
		t.Fatalf("paper_buy failed: %s", result.Error)
	}
	data := result.Data.(map[string]any)
	if data["balance"] != 9499.5 {
		t.Errorf("expected balance 9499.5, got %v", data["balance"])
	}

	summary := reg.Call(ctx, "paper_summary", nil)
	if !summary.Success {
		t.Fatalf("paper_summary failed: %s", summary.Error)
	}

	invalid := reg.Call(ctx, "paper_buy", map[string]any{"asset": "btc", "amount": -1})
	if invalid.Success {
		t.Error("expected failure for negative amount")
	}
}

type failingRecorder struct{}

func (failingRecorder) RecordTrade(*model.Trade) error          { return errors.New("disk full") }
func (failingRecorder) RecordAlert(*model.Alert, float64) error { return errors.New("disk full") }
func (failingRecorder) RecordDCA(*dca.Execution) error          { return errors.New("disk full") }
func (failingRecorder) RecordSnapshot(*model.PortfolioSnapshot) error {
	return errors.New("disk full")
}
func (failingRecorder) Close() error { return nil }

func TestRecorderFailureDoesNotFailTools(t *testing.T) {
	reg, _ := newTestRegistryWith(t, failingRecorder{})
	ctx := context.Background()

	// The trade settles in the wallet; a broken recorder must not turn
	// that into a failed result.
	result := reg.Call(ctx, "paper_buy", map[string]any{"asset": "btc", "amount": 0.01})
	if !result.Success {
		t.Fatalf("paper_buy failed: %s", result.Error)
	}
	data := result.Data.(map[string]any)
	if data["balance"] != 9499.5 {
		t.Errorf("expected balance 9499.5, got %v", data["balance"])
	}

	snap := reg.Call(ctx, "portfolio_snapshot", nil)
	if !snap.Success {
		t.Errorf("portfolio_snapshot failed: %s", snap.Error)
	}
}

func TestAlertLifecycle(t *testing.T) {
	reg, mock := newTestRegistry(t)
	ctx := context.Background()

	created := reg.Call(ctx, "alert_create", map[string]any{
		"symbol":       "btc",
		"condition":    "above",
		"target_price": 45000.0,
	})
	if !created.Success {
		t.Fatalf("alert_create failed: %s", created.Error)
	}

	mock.SetPrice("BTC/USDT", 46000)
	checked := reg.Call(ctx, "alert_check", nil)
	if !checked.Success {
		t.Fatalf("alert_check failed: %s", checked.Error)
	}
}

func TestRebalancePreview_FromPaperWallet(t *testing.T) {
	reg, mock := newTestRegistry(t)
	ctx := context.Background()
	mock.SetPrice("ETH/USDT", 3000)

	if r := reg.Call(ctx, "paper_buy", map[string]any{"asset": "btc", "amount": 0.1}); !r.Success {
		t.Fatalf("paper_buy: %s", r.Error)
	}

	result := reg.Call(ctx, "rebalance_preview", map[string]any{
		"targets": map[string]any{"BTC": 50.0, "ETH": 50.0},
	})
	if !result.Success {
		t.Fatalf("rebalance_preview failed: %s", result.Error)
	}

	badSum := reg.Call(ctx, "rebalance_preview", map[string]any{
		"targets": map[string]any{"BTC": 50.0},
	})
	if badSum.Success {
		t.Error("expected failure for targets summing to 50")
	}
}

func TestDaemonStatus_NotRunning(t *testing.T) {
	reg, _ := newTestRegistry(t)

	result := reg.Call(context.Background(), "daemon_status", nil)
	if !result.Success {
		t.Fatalf("daemon_status failed: %s", result.Error)
	}
}
