package alert

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"omnitrade/internal/collector"
	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
	"omnitrade/internal/store"
)

const alertsFile = "alerts.json"

type alertsDoc struct {
	Alerts []model.Alert `json:"alerts"`
}

// Manager owns the persisted alert rules. Every check pass evaluates
// all active alerts against live prices; the triggered transition is
// irreversible and happens at most once per alert.
type Manager struct {
	mu       sync.Mutex
	store    *store.Store
	registry *exchange.Registry
	quote    string
}

// NewManager creates a Manager. quote is the default quote asset used
// to normalize alert symbols.
func NewManager(st *store.Store, registry *exchange.Registry, quote string) *Manager {
	return &Manager{store: st, registry: registry, quote: quote}
}

func (m *Manager) load() (*alertsDoc, error) {
	var doc alertsDoc
	if _, err := m.store.Load(alertsFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Add creates an active alert. exchangeName may be empty, meaning the
// check pass consults every configured exchange.
func (m *Manager) Add(symbol, exchangeName string, condition model.AlertCondition, targetPrice float64) (*model.Alert, error) {
	if condition != model.AlertAbove && condition != model.AlertBelow {
		return nil, fmt.Errorf("unknown condition %q", condition)
	}
	if targetPrice <= 0 {
		return nil, fmt.Errorf("target price: %w", model.ErrInvalidAmount)
	}
	if exchangeName != "" {
		if _, err := m.registry.Get(exchangeName); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	a := model.Alert{
		ID:          uuid.NewString(),
		Symbol:      collector.NormalizeSymbol(symbol, m.quote),
		Exchange:    exchangeName,
		Condition:   condition,
		TargetPrice: targetPrice,
		CreatedAt:   time.Now().UnixMilli(),
	}
	doc.Alerts = append(doc.Alerts, a)
	if err := m.store.Save(alertsFile, doc); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all alerts, triggered history included.
func (m *Manager) List() ([]model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	return doc.Alerts, nil
}

// Remove deletes an alert by id in any state.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return err
	}
	kept := doc.Alerts[:0]
	found := false
	for _, a := range doc.Alerts {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return fmt.Errorf("alert %s: %w", id, model.ErrNotFound)
	}
	doc.Alerts = kept
	return m.store.Save(alertsFile, doc)
}

// triggerPrice resolves the price that satisfies an alert. With no
// exchange pinned it consults every configured exchange in turn and
// stops at the first price that satisfies the condition; fetch failures
// and unsatisfying prices fall through to the next venue.
func (m *Manager) triggerPrice(ctx context.Context, a *model.Alert) (float64, bool) {
	var candidates []exchange.Exchange
	if a.Exchange != "" {
		ex, err := m.registry.Get(a.Exchange)
		if err != nil {
			log.Printf("[WARN] alert %s: %v", a.ID, err)
			return 0, false
		}
		candidates = []exchange.Exchange{ex}
	} else {
		candidates = m.registry.All()
	}

	for _, ex := range candidates {
		ticker, err := ex.FetchTicker(ctx, a.Symbol)
		if err != nil || ticker.Last <= 0 {
			continue
		}
		if satisfied(a, ticker.Last) {
			return ticker.Last, true
		}
	}
	return 0, false
}

func satisfied(a *model.Alert, price float64) bool {
	switch a.Condition {
	case model.AlertAbove:
		return price >= a.TargetPrice
	case model.AlertBelow:
		return price <= a.TargetPrice
	default:
		return false
	}
}

// Check evaluates every active alert and returns the ones that
// triggered during this pass. The document is rewritten only when at
// least one alert changed state.
func (m *Manager) Check(ctx context.Context) ([]model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}

	var triggered []model.Alert
	for i := range doc.Alerts {
		a := &doc.Alerts[i]
		if a.Triggered {
			continue
		}
		price, ok := m.triggerPrice(ctx, a)
		if !ok {
			continue
		}
		a.Triggered = true
		a.TriggeredAt = time.Now().UnixMilli()
		a.TriggeredPrice = price
		triggered = append(triggered, *a)
		log.Printf("[INFO] alert triggered: %s %s %s %.8g (price %.8g)",
			a.ID, a.Symbol, a.Condition, a.TargetPrice, price)
	}

	if len(triggered) > 0 {
		if err := m.store.Save(alertsFile, doc); err != nil {
			return nil, err
		}
	}
	return triggered, nil
}
