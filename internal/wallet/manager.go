package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"omnitrade/internal/model"
	"omnitrade/internal/store"
)

const (
	// FeeRate is the flat 0.1% taker fee applied to both sides.
	FeeRate = 0.001
	// InitialBalance is the starting USDT endowment of a fresh wallet.
	InitialBalance = 10000.0
	// DustEpsilon is the amount below which a holding is removed.
	DustEpsilon = 1e-10

	walletVersion = 1
	walletFile    = "paper-wallet.json"
)

// PriceSource supplies the last traded price for a base asset.
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}

// Manager owns the paper wallet document. All operations run a full
// load-mutate-persist cycle under the manager mutex, so concurrent buys
// and sells cannot lose each other's writes.
type Manager struct {
	mu     sync.Mutex
	store  *store.Store
	prices PriceSource
	quote  string
}

// NewManager creates a Manager persisting through st and pricing
// through prices. quote is the quote stablecoin symbol ("USDT").
func NewManager(st *store.Store, prices PriceSource, quote string) *Manager {
	if quote == "" {
		quote = "USDT"
	}
	return &Manager{store: st, prices: prices, quote: quote}
}

func newWallet() *model.PaperWallet {
	return &model.PaperWallet{
		Version:   walletVersion,
		CreatedAt: time.Now().UnixMilli(),
		USDT:      InitialBalance,
		Holdings:  make(map[string]*model.Holding),
		Trades:    []model.Trade{},
	}
}

func (m *Manager) load() (*model.PaperWallet, error) {
	var w model.PaperWallet
	found, err := m.store.Load(walletFile, &w)
	if err != nil {
		return nil, err
	}
	if !found {
		return newWallet(), nil
	}
	if w.Holdings == nil {
		w.Holdings = make(map[string]*model.Holding)
	}
	return &w, nil
}

// Wallet returns the current wallet state, creating the default wallet
// if none is persisted yet.
func (m *Manager) Wallet() (*model.PaperWallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

// Reset discards all state and restores the initial endowment.
func (m *Manager) Reset() (*model.PaperWallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := newWallet()
	if err := m.store.Save(walletFile, w); err != nil {
		return nil, err
	}
	return w, nil
}

// History returns the most recent trades, newest last. limit <= 0
// returns the full log.
func (m *Manager) History(limit int) ([]model.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.load()
	if err != nil {
		return nil, err
	}
	trades := w.Trades
	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}
	out := make([]model.Trade, len(trades))
	copy(out, trades)
	return out, nil
}

func (m *Manager) pair(asset string) string {
	return asset + "/" + m.quote
}

// ExecuteBuy buys amount units of asset at the live price, deducting
// the quote cost plus fee from cash.
func (m *Manager) ExecuteBuy(ctx context.Context, asset string, amount float64) (*model.Trade, *model.PaperWallet, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("buy %s: %w", asset, model.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.load()
	if err != nil {
		return nil, nil, err
	}

	price, err := m.prices.CurrentPrice(ctx, asset)
	if err != nil {
		return nil, nil, err
	}

	quoteRequired := amount * price
	fee := quoteRequired * FeeRate
	totalCost := quoteRequired + fee
	if w.USDT < totalCost {
		return nil, nil, fmt.Errorf("need %.2f %s, have %.2f: %w",
			totalCost, m.quote, w.USDT, model.ErrInsufficientFunds)
	}

	w.USDT -= totalCost

	h := w.Holdings[asset]
	if h == nil {
		h = &model.Holding{Asset: asset}
		w.Holdings[asset] = h
	}
	// Weighted-average cost basis. The fee is excluded from the basis:
	// cost attributes the traded notional only.
	newTotalCost := h.TotalCost + quoteRequired
	newAmount := h.Amount + amount
	h.Amount = newAmount
	h.TotalCost = newTotalCost
	h.AvgBuyPrice = newTotalCost / newAmount

	trade := model.Trade{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UnixMilli(),
		Side:         model.TradeBuy,
		Asset:        asset,
		Symbol:       m.pair(asset),
		Amount:       amount,
		Price:        price,
		QuoteValue:   quoteRequired,
		Fee:          fee,
		BalanceAfter: w.USDT,
	}
	w.Trades = append(w.Trades, trade)

	if err := m.store.Save(walletFile, w); err != nil {
		return nil, nil, err
	}
	return &trade, w, nil
}

// ExecuteSell sells amount units of asset at the live price, crediting
// the net proceeds to cash. Selling the whole position removes the
// holding; a partial sell reduces the cost basis proportionally so the
// average buy price is unchanged.
func (m *Manager) ExecuteSell(ctx context.Context, asset string, amount float64) (*model.Trade, *model.PaperWallet, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("sell %s: %w", asset, model.ErrInvalidAmount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := m.load()
	if err != nil {
		return nil, nil, err
	}

	h := w.Holdings[asset]
	if h == nil || h.Amount < amount-DustEpsilon {
		have := 0.0
		if h != nil {
			have = h.Amount
		}
		return nil, nil, fmt.Errorf("sell %.8f %s, hold %.8f: %w",
			amount, asset, have, model.ErrInsufficientHolding)
	}

	price, err := m.prices.CurrentPrice(ctx, asset)
	if err != nil {
		return nil, nil, err
	}

	gross := amount * price
	fee := gross * FeeRate
	net := gross - fee

	remaining := h.Amount - amount
	if remaining < DustEpsilon {
		delete(w.Holdings, asset)
	} else {
		h.Amount = remaining
		h.TotalCost = h.AvgBuyPrice * remaining
	}

	w.USDT += net

	trade := model.Trade{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UnixMilli(),
		Side:         model.TradeSell,
		Asset:        asset,
		Symbol:       m.pair(asset),
		Amount:       amount,
		Price:        price,
		QuoteValue:   gross,
		Fee:          fee,
		BalanceAfter: w.USDT,
	}
	w.Trades = append(w.Trades, trade)

	if err := m.store.Save(walletFile, w); err != nil {
		return nil, nil, err
	}
	return &trade, w, nil
}
