package portfolio

import (
	"context"
	"sort"

	"omnitrade/internal/calculator"
	"omnitrade/internal/model"
	"omnitrade/internal/wallet"
)

// HoldingSummary is the valuation of one held asset.
type HoldingSummary struct {
	Asset         string  `json:"asset"`
	Amount        float64 `json:"amount"`
	Price         float64 `json:"price"`
	Value         float64 `json:"value"`
	AvgBuyPrice   float64 `json:"avgBuyPrice"`
	TotalCost     float64 `json:"totalCost"`
	PnL           float64 `json:"pnl"`
	PnLPct        float64 `json:"pnlPct"`
	AllocationPct float64 `json:"allocationPct"`
}

// Summary is the full portfolio valuation. TotalPnL is measured against
// the fixed initial endowment, not against cost basis: realized profit
// held as cash keeps counting.
type Summary struct {
	TotalValue  float64          `json:"totalValue"`
	CashUSDT    float64          `json:"cashUsdt"`
	Holdings    []HoldingSummary `json:"holdings"`
	TotalPnL    float64          `json:"totalPnl"`
	TotalPnLPct float64          `json:"totalPnlPct"`
}

// Valuator computes present value and P&L from the ledger plus live
// prices. It never mutates or persists the wallet.
type Valuator struct {
	wallet *wallet.Manager
	prices wallet.PriceSource
}

// NewValuator creates a Valuator over the given ledger and price source.
func NewValuator(w *wallet.Manager, prices wallet.PriceSource) *Valuator {
	return &Valuator{wallet: w, prices: prices}
}

// Summary values every holding at the live price. A price fetch failing
// for any held asset aborts the whole valuation; a partial summary must
// never masquerade as a complete one.
func (v *Valuator) Summary(ctx context.Context) (*Summary, error) {
	w, err := v.wallet.Wallet()
	if err != nil {
		return nil, err
	}

	holdings := make([]HoldingSummary, 0, len(w.Holdings))
	totalValue := w.USDT
	for asset, h := range w.Holdings {
		price, err := v.prices.CurrentPrice(ctx, asset)
		if err != nil {
			return nil, err
		}
		value := h.Amount * price
		pnl := value - h.TotalCost
		holdings = append(holdings, HoldingSummary{
			Asset:       asset,
			Amount:      h.Amount,
			Price:       price,
			Value:       value,
			AvgBuyPrice: h.AvgBuyPrice,
			TotalCost:   h.TotalCost,
			PnL:         pnl,
			PnLPct:      calculator.Percent(pnl, h.TotalCost),
		})
		totalValue += value
	}

	for i := range holdings {
		holdings[i].AllocationPct = calculator.Percent(holdings[i].Value, totalValue)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Value > holdings[j].Value })

	totalPnL := totalValue - wallet.InitialBalance
	return &Summary{
		TotalValue:  totalValue,
		CashUSDT:    w.USDT,
		Holdings:    holdings,
		TotalPnL:    totalPnL,
		TotalPnLPct: calculator.Percent(totalPnL, wallet.InitialBalance),
	}, nil
}

// Snapshot converts a summary into a persistable history point.
func (s *Summary) Snapshot(timestamp int64, exchangeName string) model.PortfolioSnapshot {
	assets := make(map[string]model.AssetSnapshot, len(s.Holdings))
	for _, h := range s.Holdings {
		assets[h.Asset] = model.AssetSnapshot{Amount: h.Amount, USDValue: h.Value}
	}
	return model.PortfolioSnapshot{
		Timestamp:     timestamp,
		TotalValueUSD: s.TotalValue,
		Exchanges: map[string]model.ExchangeSnapshot{
			exchangeName: {TotalValueUSD: s.TotalValue, Assets: assets},
		},
	}
}
