package exchange

import (
	"fmt"
	"strings"

	"omnitrade/internal/model"
)

// Registry holds the configured exchange adapters. Iteration order is
// registration order, which determines tie-breaking in the arbitrage
// scanner and the check-all order for alerts.
type Registry struct {
	byName map[string]Exchange
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Exchange)}
}

// Add registers an adapter under its lowercased name.
func (r *Registry) Add(ex Exchange) {
	name := strings.ToLower(ex.Name())
	if _, exists := r.byName[name]; !exists {
		r.order = append(r.order, name)
	}
	r.byName[name] = ex
}

// Get returns the adapter for name, or ErrExchangeNotConfigured.
func (r *Registry) Get(name string) (Exchange, error) {
	ex, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, model.ErrExchangeNotConfigured)
	}
	return ex, nil
}

// All returns every adapter in registration order.
func (r *Registry) All() []Exchange {
	out := make([]Exchange, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Names returns the registered exchange names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
