// Package tools exposes every trading operation as a named, uniformly
// invokable command. The registry is the single dispatch surface for
// CLI and automation callers.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Result is the uniform envelope every tool returns. Exactly one of
// Data or Error is meaningful, selected by Success.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful result.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail wraps an error message in a failed result.
func Fail(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Handler executes one tool invocation. Handlers never panic on bad
// arguments; they return a failed Result instead.
type Handler func(ctx context.Context, args map[string]any) Result

// Registry manages the available tools.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a tool under name, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Call invokes a tool by name. An unknown name is a failed Result, not
// an error: callers treat the envelope as the only outcome channel.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) Result {
	r.mu.RLock()
	h := r.handlers[name]
	r.mu.RUnlock()

	if h == nil {
		return Fail("unknown tool %q", name)
	}
	return h(ctx, args)
}

// List returns all registered tool names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Argument accessors. JSON-decoded arguments arrive as map[string]any,
// so numbers are float64 and everything needs a checked assertion.

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok && v != ""
}

func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func boolArg(args map[string]any, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

func intArg(args map[string]any, key string) (int, bool) {
	f, ok := floatArg(args, key)
	return int(f), ok
}

func stringSliceArg(args map[string]any, key string) ([]string, bool) {
	raw, ok := args[key].([]any)
	if !ok {
		if direct, ok := args[key].([]string); ok {
			return direct, true
		}
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func floatMapArg(args map[string]any, key string) (map[string]float64, bool) {
	raw, ok := args[key].(map[string]any)
	if !ok {
		if direct, ok := args[key].(map[string]float64); ok {
			return direct, true
		}
		return nil, false
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, false
		}
		out[k] = f
	}
	return out, true
}
