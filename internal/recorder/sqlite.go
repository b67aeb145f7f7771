package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"omnitrade/internal/dca"
	"omnitrade/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS paper_trades (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			trade_id      TEXT,
			side          TEXT,
			asset         TEXT,
			symbol        TEXT,
			amount        REAL,
			price         REAL,
			quote_value   REAL,
			fee           REAL,
			balance_after REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON paper_trades(timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_triggers (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			alert_id     TEXT,
			symbol       TEXT,
			condition    TEXT,
			target_price REAL,
			price        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alert_triggers(timestamp)`,

		`CREATE TABLE IF NOT EXISTS dca_executions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			config_id  TEXT,
			symbol     TEXT,
			exchange   TEXT,
			amount_usd REAL,
			price      REAL,
			quantity   REAL,
			order_id   TEXT,
			simulated  INTEGER,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dca_ts ON dca_executions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			total_value_usd REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON portfolio_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO paper_trades
		(timestamp, trade_id, side, asset, symbol, amount, price, quote_value, fee, balance_after)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.Timestamp, t.ID, string(t.Side), t.Asset, t.Symbol,
		t.Amount, t.Price, t.QuoteValue, t.Fee, t.BalanceAfter,
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(a *model.Alert, price float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_triggers
		(timestamp, alert_id, symbol, condition, target_price, price)
		VALUES (?,?,?,?,?,?)`,
		time.Now().UnixMilli(), a.ID, a.Symbol, string(a.Condition), a.TargetPrice, price,
	)
	return err
}

func (r *SQLiteRecorder) RecordDCA(run *dca.Execution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	simulated := 0
	if run.Simulated {
		simulated = 1
	}
	_, err := r.db.Exec(`INSERT INTO dca_executions
		(timestamp, config_id, symbol, exchange, amount_usd, price, quantity, order_id, simulated, error)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().UnixMilli(), run.ConfigID, run.Symbol, run.Exchange,
		run.AmountUSD, run.Price, run.Quantity, run.OrderID, simulated, run.Error,
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(snap *model.PortfolioSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO portfolio_snapshots (timestamp, total_value_usd) VALUES (?,?)`,
		snap.Timestamp, snap.TotalValueUSD,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
