package recorder

import (
	"omnitrade/internal/dca"
	"omnitrade/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrade(_ *model.Trade) error                { return nil }
func (n *NoopRecorder) RecordAlert(_ *model.Alert, _ float64) error     { return nil }
func (n *NoopRecorder) RecordDCA(_ *dca.Execution) error                { return nil }
func (n *NoopRecorder) RecordSnapshot(_ *model.PortfolioSnapshot) error { return nil }
func (n *NoopRecorder) Close() error                                    { return nil }
