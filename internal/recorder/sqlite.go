package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/uzairmukadam/Trend-Sage/internal/pipeline"
)

// SQLiteRecorder persists run history to a SQLite database.
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

	// WAL mode so dashboards can read while a run is being recorded.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at  INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			total       INTEGER,
			succeeded   INTEGER,
			failed      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS unit_outcomes (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL,
			asset_id        TEXT,
			timeframe       TEXT,
			stage           TEXT,
			status          TEXT,
			error_class     TEXT,
			error           TEXT,
			duration_ms     INTEGER,
			trend           TEXT,
			predicted_price REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run ON unit_outcomes(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run row and one row per unit outcome.
func (r *SQLiteRecorder) RecordRun(summary *pipeline.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO runs (started_at, finished_at, total, succeeded, failed)
		VALUES (?,?,?,?,?)`,
		summary.StartedAt.Unix(), summary.FinishedAt.Unix(),
		len(summary.Outcomes), summary.Succeeded(), summary.Failed(),
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, o := range summary.Outcomes {
		status := "ok"
		errMsg := ""
		if o.Failed() {
			status = "failed"
			errMsg = o.Err.Error()
		}
		var predicted sql.NullFloat64
		if o.Predicted != nil {
			predicted = sql.NullFloat64{Float64: *o.Predicted, Valid: true}
		}
		if _, err := r.db.Exec(`INSERT INTO unit_outcomes
			(run_id, asset_id, timeframe, stage, status, error_class, error, duration_ms, trend, predicted_price)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			runID, o.Key.AssetID, string(o.Key.Timeframe), string(o.Stage), status,
			pipeline.ErrorClass(o.Err), errMsg, o.Duration.Milliseconds(), string(o.Trend), predicted,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
