package portfolio

import (
	"testing"

	"omnitrade/internal/model"
	"omnitrade/internal/store"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return NewHistory(st)
}

func TestHistory_RecordAndList(t *testing.T) {
	h := newTestHistory(t)

	for i := int64(1); i <= 3; i++ {
		if err := h.Record(model.PortfolioSnapshot{Timestamp: i, TotalValueUSD: float64(i) * 100}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	snaps, err := h.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	if snaps[0].Timestamp != 1 || snaps[2].Timestamp != 3 {
		t.Errorf("expected oldest-first order, got %+v", snaps)
	}

	last, err := h.List(2)
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if len(last) != 2 || last[0].Timestamp != 2 {
		t.Errorf("expected the 2 most recent snapshots, got %+v", last)
	}
}

func TestHistory_CapDropsOldest(t *testing.T) {
	h := newTestHistory(t)

	// Preload a document at the cap, then record one more.
	doc := &historyDoc{Snapshots: make([]model.PortfolioSnapshot, MaxSnapshots)}
	for i := range doc.Snapshots {
		doc.Snapshots[i] = model.PortfolioSnapshot{Timestamp: int64(i + 1)}
	}
	if err := h.store.Save(historyFile, doc); err != nil {
		t.Fatalf("preload: %v", err)
	}

	if err := h.Record(model.PortfolioSnapshot{Timestamp: int64(MaxSnapshots + 1)}); err != nil {
		t.Fatalf("record: %v", err)
	}

	snaps, err := h.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snaps) != MaxSnapshots {
		t.Fatalf("expected %d snapshots, got %d", MaxSnapshots, len(snaps))
	}
	if snaps[0].Timestamp != 2 {
		t.Errorf("expected oldest snapshot dropped, first is %d", snaps[0].Timestamp)
	}
	if snaps[len(snaps)-1].Timestamp != int64(MaxSnapshots+1) {
		t.Errorf("expected newest snapshot retained, last is %d", snaps[len(snaps)-1].Timestamp)
	}
}

func TestHistory_Clear(t *testing.T) {
	h := newTestHistory(t)

	if err := h.Record(model.PortfolioSnapshot{Timestamp: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := h.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	snaps, err := h.List(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected empty history, got %d", len(snaps))
	}
}
