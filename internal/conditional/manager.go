package conditional

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"omnitrade/internal/calculator"
	"omnitrade/internal/collector"
	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
	"omnitrade/internal/store"
)

const ordersFile = "conditional-orders.json"

type ordersDoc struct {
	Orders []model.ConditionalOrder `json:"orders"`
}

// Manager owns the persisted conditional-order rules. A trigger is
// consumed exactly once: the order placement outcome, success or
// failure, is recorded and the rule never fires again.
type Manager struct {
	mu          sync.Mutex
	store       *store.Store
	registry    *exchange.Registry
	quote       string
	autoExecute bool
}

// NewManager creates a Manager. autoExecute gates real order placement
// the same way it gates rebalance execution.
func NewManager(st *store.Store, registry *exchange.Registry, quote string, autoExecute bool) *Manager {
	return &Manager{store: st, registry: registry, quote: quote, autoExecute: autoExecute}
}

func (m *Manager) load() (*ordersDoc, error) {
	var doc ordersDoc
	if _, err := m.store.Load(ordersFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validateCondition(cond *model.TriggerCondition) error {
	switch cond.Type {
	case model.CondPriceAbove, model.CondPriceBelow:
		if cond.TargetPrice <= 0 {
			return fmt.Errorf("target price: %w", model.ErrInvalidAmount)
		}
	case model.CondPriceChangePercent:
		if cond.PercentChange <= 0 {
			return fmt.Errorf("percent change: %w", model.ErrInvalidAmount)
		}
		if cond.Direction != model.DirectionUp && cond.Direction != model.DirectionDown {
			return fmt.Errorf("unknown direction %q", cond.Direction)
		}
	default:
		return fmt.Errorf("unknown condition type %q", cond.Type)
	}
	return nil
}

func validateOrder(spec *model.OrderSpec) error {
	if spec.Side != model.TradeBuy && spec.Side != model.TradeSell {
		return fmt.Errorf("unknown order side %q", spec.Side)
	}
	if spec.Type != model.OrderMarket && spec.Type != model.OrderLimit {
		return fmt.Errorf("unknown order type %q", spec.Type)
	}
	if spec.Amount <= 0 {
		return fmt.Errorf("order amount: %w", model.ErrInvalidAmount)
	}
	if spec.Type == model.OrderLimit && spec.Price <= 0 {
		return fmt.Errorf("limit price: %w", model.ErrInvalidAmount)
	}
	return nil
}

// Add creates an enabled conditional order. For percent-change
// conditions the base price is snapshotted from the live ticker now and
// never refreshed, so the trigger stays relative to creation time.
func (m *Manager) Add(ctx context.Context, symbol, exchangeName string, cond model.TriggerCondition, spec model.OrderSpec) (*model.ConditionalOrder, error) {
	if err := validateCondition(&cond); err != nil {
		return nil, err
	}
	if err := validateOrder(&spec); err != nil {
		return nil, err
	}
	ex, err := m.registry.Get(exchangeName)
	if err != nil {
		return nil, err
	}

	pair := collector.NormalizeSymbol(symbol, m.quote)
	if cond.Type == model.CondPriceChangePercent && cond.BasePrice <= 0 {
		ticker, err := ex.FetchTicker(ctx, pair)
		if err != nil || ticker.Last <= 0 {
			return nil, fmt.Errorf("%s: %w", pair, model.ErrPriceUnavailable)
		}
		cond.BasePrice = ticker.Last
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	order := model.ConditionalOrder{
		ID:        uuid.NewString(),
		Symbol:    pair,
		Exchange:  exchangeName,
		Condition: cond,
		Order:     spec,
		Enabled:   true,
		CreatedAt: time.Now().UnixMilli(),
	}
	doc.Orders = append(doc.Orders, order)
	if err := m.store.Save(ordersFile, doc); err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns all conditional orders.
func (m *Manager) List() ([]model.ConditionalOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	return doc.Orders, nil
}

// Remove deletes a conditional order by id.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return err
	}
	kept := doc.Orders[:0]
	found := false
	for _, o := range doc.Orders {
		if o.ID == id {
			found = true
			continue
		}
		kept = append(kept, o)
	}
	if !found {
		return fmt.Errorf("conditional order %s: %w", id, model.ErrNotFound)
	}
	doc.Orders = kept
	return m.store.Save(ordersFile, doc)
}

// Toggle enables or disables an untriggered rule.
func (m *Manager) Toggle(id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return err
	}
	for i := range doc.Orders {
		if doc.Orders[i].ID == id {
			doc.Orders[i].Enabled = enabled
			return m.store.Save(ordersFile, doc)
		}
	}
	return fmt.Errorf("conditional order %s: %w", id, model.ErrNotFound)
}

// shouldTrigger evaluates the condition against the live price.
func shouldTrigger(cond *model.TriggerCondition, price float64) bool {
	switch cond.Type {
	case model.CondPriceAbove:
		return price >= cond.TargetPrice
	case model.CondPriceBelow:
		return price <= cond.TargetPrice
	case model.CondPriceChangePercent:
		change := calculator.PercentChange(cond.BasePrice, price)
		if cond.Direction == model.DirectionUp {
			return change >= cond.PercentChange
		}
		return change <= -cond.PercentChange
	default:
		return false
	}
}

func (m *Manager) placeOrder(ctx context.Context, o *model.ConditionalOrder) (string, error) {
	if !m.autoExecute {
		return "", model.ErrAuthorizationRequired
	}
	ex, err := m.registry.Get(o.Exchange)
	if err != nil {
		return "", err
	}

	var placed *model.Order
	switch {
	case o.Order.Type == model.OrderLimit:
		placed, err = ex.CreateLimitOrder(ctx, o.Symbol, o.Order.Side, o.Order.Amount, o.Order.Price)
	case o.Order.Side == model.TradeBuy:
		placed, err = ex.CreateMarketBuyOrder(ctx, o.Symbol, o.Order.Amount)
	default:
		placed, err = ex.CreateMarketSellOrder(ctx, o.Symbol, o.Order.Amount)
	}
	if err != nil {
		return "", err
	}
	return placed.ID, nil
}

// Check evaluates every enabled, untriggered order. A satisfied
// condition consumes the rule whether or not the order placement
// succeeds; a failed execution is not retried. Returns the orders that
// triggered this pass.
func (m *Manager) Check(ctx context.Context) ([]model.ConditionalOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}

	var triggered []model.ConditionalOrder
	for i := range doc.Orders {
		o := &doc.Orders[i]
		if !o.Enabled || o.Triggered {
			continue
		}
		ex, err := m.registry.Get(o.Exchange)
		if err != nil {
			log.Printf("[WARN] conditional %s: %v", o.ID, err)
			continue
		}
		ticker, err := ex.FetchTicker(ctx, o.Symbol)
		if err != nil || ticker.Last <= 0 {
			continue
		}
		if !shouldTrigger(&o.Condition, ticker.Last) {
			continue
		}

		o.Triggered = true
		orderID, placeErr := m.placeOrder(ctx, o)
		if placeErr != nil {
			o.Error = placeErr.Error()
			log.Printf("[ERROR] conditional %s fired but order failed: %v", o.ID, placeErr)
		} else {
			o.OrderID = orderID
			log.Printf("[INFO] conditional %s fired: %s %s %.8g -> order %s",
				o.ID, o.Order.Side, o.Symbol, o.Order.Amount, orderID)
		}
		triggered = append(triggered, *o)
	}

	if len(triggered) > 0 {
		if err := m.store.Save(ordersFile, doc); err != nil {
			return nil, err
		}
	}
	return triggered, nil
}
