package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"sync"

	_ "modernc.org/sqlite"

	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/model"
)

// SQLiteRecorder persists evaluations to a SQLite database.
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

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_evaluations (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT,
			bar_date     TEXT,
			close        REAL,
			ema20        REAL,
			ema50        REAL,
			bb_upper     REAL,
			bb_lower     REAL,
			stoch_k      REAL,
			stoch_d      REAL,
			support      REAL,
			resistance   REAL,
			entry_price  REAL,
			signal       TEXT NOT NULL,
			rule         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_ts ON signal_evaluations(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_signal ON signal_evaluations(signal)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps undefined indicator values to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func (r *SQLiteRecorder) RecordEvaluation(evt *model.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := evt.Row
	entry := sql.NullFloat64{}
	if evt.EntryPrice != nil {
		entry = nullable(*evt.EntryPrice)
	}

	_, err := r.db.Exec(`INSERT INTO signal_evaluations
		(id, timestamp, symbol, bar_date, close, ema20, ema50, bb_upper, bb_lower,
		 stoch_k, stoch_d, support, resistance, entry_price, signal, rule)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, evt.EvaluatedAt.Unix(), evt.Symbol, row.Date.Format("2006-01-02"),
		nullable(row.Close), nullable(row.EMA20), nullable(row.EMA50),
		nullable(row.BBUpper), nullable(row.BBLower),
		nullable(row.StochK), nullable(row.StochD),
		nullable(row.Support), nullable(row.Resistance),
		entry, string(evt.Signal), evt.Rule,
	)
	return err
}

// CountBySignal returns how many evaluations produced each signal.
func (r *SQLiteRecorder) CountBySignal() (map[model.Signal]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT signal, COUNT(*) FROM signal_evaluations GROUP BY signal`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.Signal]int)
	for rows.Next() {
		var sig string
		var n int
		if err := rows.Scan(&sig, &n); err != nil {
			return nil, err
		}
		out[model.Signal(sig)] = n
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Infof("closing sqlite recorder")
	return r.db.Close()
}
