package notifier

import (
	"context"
	"log"
)

// Notifier delivers a message through one channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// DeliveryResult reports one channel's delivery outcome.
type DeliveryResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Dispatcher fans a message out to every configured channel. Delivery
// is fire-and-forget from the caller's perspective: failures are
// reported per channel and never propagate.
type Dispatcher struct {
	channels []Notifier
}

// NewDispatcher creates a Dispatcher over the given channels.
func NewDispatcher(channels ...Notifier) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Dispatch sends text through every channel and collects the results.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) []DeliveryResult {
	results := make([]DeliveryResult, 0, len(d.channels))
	for _, ch := range d.channels {
		result := DeliveryResult{Channel: ch.Name()}
		if err := ch.Send(ctx, text); err != nil {
			result.Error = err.Error()
			log.Printf("[WARN] notify via %s: %v", ch.Name(), err)
		} else {
			result.Success = true
		}
		results = append(results, result)
	}
	return results
}
