package recorder

import (
	"omnitrade/internal/dca"
	"omnitrade/internal/model"
)

// Recorder persists historical data for analysis. Recording failures
// are logged by callers, never propagated into the operation result.
type Recorder interface {
	RecordTrade(t *model.Trade) error
	RecordAlert(a *model.Alert, price float64) error
	RecordDCA(run *dca.Execution) error
	RecordSnapshot(snap *model.PortfolioSnapshot) error
	Close() error
}
