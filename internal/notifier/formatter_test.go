package notifier

import (
	"strings"
	"testing"

	"omnitrade/internal/dca"
	"omnitrade/internal/model"
)

func TestFormatAlert(t *testing.T) {
	msg := FormatAlert(&model.Alert{
		Symbol:      "BTC/USDT",
		Condition:   model.AlertAbove,
		TargetPrice: 50000,
		Exchange:    "binance",
	})
	for _, want := range []string{"BTC/USDT", "above", "50000", "binance"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message %q", want, msg)
		}
	}
}

func TestFormatConditional_IncludesFailure(t *testing.T) {
	msg := FormatConditional(&model.ConditionalOrder{
		Symbol:   "ETH/USDT",
		Exchange: "binance",
		Order:    model.OrderSpec{Side: model.TradeSell, Type: model.OrderMarket, Amount: 1},
		Error:    "auto-execution is disabled",
	})
	if !strings.Contains(msg, "auto-execution is disabled") {
		t.Errorf("expected failure reason in message %q", msg)
	}
}

func TestFormatDCA_SimulatedVsReal(t *testing.T) {
	sim := FormatDCA(&dca.Execution{Symbol: "BTC/USDT", Exchange: "binance", AmountUSD: 100, Simulated: true})
	if !strings.Contains(sim, "simulated") {
		t.Errorf("expected simulated label in %q", sim)
	}
	real := FormatDCA(&dca.Execution{Symbol: "BTC/USDT", Exchange: "binance", AmountUSD: 100, Price: 50000, Quantity: 0.002})
	if !strings.Contains(real, "executed") {
		t.Errorf("expected executed label in %q", real)
	}
	if !strings.Contains(real, "0.00200000") {
		t.Errorf("expected quantity in %q", real)
	}
}
