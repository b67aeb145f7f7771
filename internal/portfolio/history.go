package portfolio

import (
	"sync"

	"omnitrade/internal/model"
	"omnitrade/internal/store"
)

const (
	historyFile = "portfolio-history.json"
	// MaxSnapshots caps the history document; oldest entries drop first.
	MaxSnapshots = 1000
)

type historyDoc struct {
	Snapshots []model.PortfolioSnapshot `json:"snapshots"`
}

// History owns the persisted snapshot document.
type History struct {
	mu    sync.Mutex
	store *store.Store
}

// NewHistory creates a History persisting through st.
func NewHistory(st *store.Store) *History {
	return &History{store: st}
}

func (h *History) load() (*historyDoc, error) {
	var doc historyDoc
	if _, err := h.store.Load(historyFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Record appends a snapshot, dropping the oldest entries beyond the cap.
func (h *History) Record(snap model.PortfolioSnapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := h.load()
	if err != nil {
		return err
	}
	doc.Snapshots = append(doc.Snapshots, snap)
	if len(doc.Snapshots) > MaxSnapshots {
		doc.Snapshots = doc.Snapshots[len(doc.Snapshots)-MaxSnapshots:]
	}
	return h.store.Save(historyFile, doc)
}

// List returns the most recent snapshots, oldest first. limit <= 0
// returns everything retained.
func (h *History) List(limit int) ([]model.PortfolioSnapshot, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	doc, err := h.load()
	if err != nil {
		return nil, err
	}
	snaps := doc.Snapshots
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[len(snaps)-limit:]
	}
	out := make([]model.PortfolioSnapshot, len(snaps))
	copy(out, snaps)
	return out, nil
}

// Clear removes all history.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Save(historyFile, &historyDoc{Snapshots: []model.PortfolioSnapshot{}})
}
