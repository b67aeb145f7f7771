package dca

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

const dcaFile = "dca.json"

type dcaDoc struct {
	Configs []model.DCAConfig `json:"configs"`
}

// Execution reports one DCA run, real or simulated.
type Execution struct {
	ConfigID  string  `json:"configId"`
	Symbol    string  `json:"symbol"`
	Exchange  string  `json:"exchange"`
	AmountUSD float64 `json:"amountUSD"`
	Price     float64 `json:"price,omitempty"`
	Quantity  float64 `json:"quantity,omitempty"`
	OrderID   string  `json:"orderId,omitempty"`
	Simulated bool    `json:"simulated"`
	Error     string  `json:"error,omitempty"`
}

// Manager owns the persisted DCA schedules. Executors are selected per
// exchange at construction time, so whether a schedule trades for real
// or only simulates is fixed configuration, not a runtime branch.
type Manager struct {
	mu        sync.Mutex
	store     *store.Store
	registry  *exchange.Registry
	quote     string
	executors map[string]Executor
}

// NewManager creates a Manager. Exchanges with trading credentials get
// a real executor when autoExecute is set; every other exchange
// simulates.
func NewManager(st *store.Store, registry *exchange.Registry, quote string, autoExecute bool) *Manager {
	executors := make(map[string]Executor)
	for _, name := range registry.Names() {
		ex, err := registry.Get(name)
		if err != nil {
			continue
		}
		executors[name] = executorFor(ex, autoExecute)
	}
	return &Manager{store: st, registry: registry, quote: quote, executors: executors}
}

func (m *Manager) load() (*dcaDoc, error) {
	var doc dcaDoc
	if _, err := m.store.Load(dcaFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Add creates an enabled schedule buying amountUSD of symbol at the
// given frequency.
func (m *Manager) Add(symbol, exchangeName string, amountUSD float64, freq model.Frequency) (*model.DCAConfig, error) {
	if amountUSD <= 0 {
		return nil, fmt.Errorf("amount: %w", model.ErrInvalidAmount)
	}
	if !freq.Valid() {
		return nil, fmt.Errorf("unknown frequency %q", freq)
	}
	if _, err := m.registry.Get(exchangeName); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	cfg := model.DCAConfig{
		ID:        uuid.NewString(),
		Symbol:    collector.NormalizeSymbol(symbol, m.quote),
		Exchange:  exchangeName,
		AmountUSD: amountUSD,
		Frequency: freq,
		Enabled:   true,
		CreatedAt: time.Now().UnixMilli(),
	}
	doc.Configs = append(doc.Configs, cfg)
	if err := m.store.Save(dcaFile, doc); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// List returns all schedules.
func (m *Manager) List() ([]model.DCAConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	return doc.Configs, nil
}

// Remove deletes a schedule by id.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return err
	}
	kept := doc.Configs[:0]
	found := false
	for _, c := range doc.Configs {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("dca config %s: %w", id, model.ErrNotFound)
	}
	doc.Configs = kept
	return m.store.Save(dcaFile, doc)
}

// Toggle enables or disables a schedule.
func (m *Manager) Toggle(id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return err
	}
	for i := range doc.Configs {
		if doc.Configs[i].ID == id {
			doc.Configs[i].Enabled = enabled
			return m.store.Save(dcaFile, doc)
		}
	}
	return fmt.Errorf("dca config %s: %w", id, model.ErrNotFound)
}

// execute runs one schedule. On any attempt LastExecuted advances so a
// failing schedule does not retry on every tick; the spend statistics
// advance whenever an executor ran, simulated and failed runs included.
func (m *Manager) execute(ctx context.Context, cfg *model.DCAConfig, now time.Time) Execution {
	run := Execution{
		ConfigID:  cfg.ID,
		Symbol:    cfg.Symbol,
		Exchange:  cfg.Exchange,
		AmountUSD: cfg.AmountUSD,
	}
	cfg.LastExecuted = now.UnixMilli()

	ex, err := m.registry.Get(cfg.Exchange)
	if err != nil {
		run.Error = err.Error()
		return run
	}
	ticker, err := ex.FetchTicker(ctx, cfg.Symbol)
	if err != nil || ticker.Last <= 0 {
		run.Error = fmt.Sprintf("%s: %v", model.ErrPriceUnavailable, err)
		return run
	}

	run.Price = ticker.Last
	run.Quantity = cfg.AmountUSD / ticker.Last

	executor := m.executors[cfg.Exchange]
	if executor == nil {
		executor = SimulatedExecutor{}
	}
	run.Simulated = executor.Name() == "simulated"

	orderID, err := executor.Execute(ctx, cfg.Symbol, run.Quantity)
	if err != nil {
		run.Error = err.Error()
	} else {
		run.OrderID = orderID
	}

	cfg.TotalExecutions++
	cfg.TotalSpent += cfg.AmountUSD
	return run
}

// ProcessDue executes every due schedule. Failures are collected
// per-item; one schedule failing never blocks its siblings. The
// document is rewritten only when a schedule ran.
func (m *Manager) ProcessDue(ctx context.Context, now time.Time) ([]Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}

	var runs []Execution
	for i := range doc.Configs {
		cfg := &doc.Configs[i]
		if !cfg.Due(now) {
			continue
		}
		run := m.execute(ctx, cfg, now)
		if run.Error != "" {
			log.Printf("[ERROR] dca %s (%s): %s", cfg.ID, cfg.Symbol, run.Error)
		} else if run.Simulated {
			log.Printf("[INFO] dca %s simulated: %.2f USD -> %.8f %s @ %.8g",
				cfg.ID, run.AmountUSD, run.Quantity, cfg.Symbol, run.Price)
		} else {
			log.Printf("[INFO] dca %s executed: order %s", cfg.ID, run.OrderID)
		}
		runs = append(runs, run)
	}

	if len(runs) > 0 {
		if err := m.store.Save(dcaFile, doc); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// ExecuteNow runs one schedule immediately, ignoring the interval gate.
func (m *Manager) ExecuteNow(ctx context.Context, id string) (*Execution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Configs {
		if doc.Configs[i].ID != id {
			continue
		}
		run := m.execute(ctx, &doc.Configs[i], time.Now())
		if err := m.store.Save(dcaFile, doc); err != nil {
			return nil, err
		}
		return &run, nil
	}
	return nil, fmt.Errorf("dca config %s: %w", id, model.ErrNotFound)
}
