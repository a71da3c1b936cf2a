package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"FuturesScanner/internal/model"
)

// SQLiteRecorder persists signals to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL: /signals reads alongside scan writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at INTEGER NOT NULL,
			timestamp   TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			direction   TEXT NOT NULL,
			entry       REAL,
			tp1         REAL,
			tp2         REAL,
			tp3         REAL,
			sl          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_recorded ON signals(recorded_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(ctx context.Context, e *model.SignalLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO signals
		(recorded_at, timestamp, symbol, direction, entry, tp1, tp2, tp3, sl)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), e.Timestamp, e.Symbol, string(e.Direction),
		e.Entry, e.TP1, e.TP2, e.TP3, e.SL,
	)
	return err
}

// Recent returns up to limit most recently recorded signals, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]model.SignalLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT timestamp, symbol, direction, entry, tp1, tp2, tp3, sl
		FROM signals ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []model.SignalLogEntry
	for rows.Next() {
		var e model.SignalLogEntry
		var dir string
		if err := rows.Scan(&e.Timestamp, &e.Symbol, &dir, &e.Entry, &e.TP1, &e.TP2, &e.TP3, &e.SL); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		e.Direction = model.Decision(dir)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
