package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/search"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	trace_path    TEXT NOT NULL,
	frames        INTEGER NOT NULL,
	states        INTEGER NOT NULL,
	sequences     INTEGER NOT NULL DEFAULT 0,
	best_score    INTEGER,
	config_yaml   TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sequences (
	run_id        TEXT NOT NULL,
	rank          INTEGER NOT NULL,
	score         INTEGER NOT NULL,
	inputs        TEXT NOT NULL,
	PRIMARY KEY (run_id, rank),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS run_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	event         TEXT NOT NULL,
	frame         INTEGER,
	count         INTEGER,
	detail        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`
// #endregion schema

// #region store-struct
// Store persists search runs in SQLite.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region create-run
// CreateRun inserts a run row. An empty ID gets a fresh UUID and a zero
// CreatedAt gets the current time; the stored record is returned.
func (s *Store) CreateRun(rec RunRecord) (RunRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, trace_path, frames, states, sequences, best_score, config_yaml, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TracePath, rec.Frames, rec.States, rec.Sequences,
		bestScore(rec), nullIfEmpty(rec.ConfigYAML), rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}
	return rec, nil
}
// #endregion create-run

// #region save-sequences
// SaveSequences replaces the ranked sequences of a run and updates its
// summary columns atomically. seqs must already be in rank order.
func (s *Store) SaveSequences(runID string, seqs []search.Sequence) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sequences WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear sequences: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO sequences (run_id, rank, score, inputs) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, seq := range seqs {
		if _, err := stmt.Exec(runID, i, int64(seq.Score), neck.EncodeSequence(seq.Inputs)); err != nil {
			return fmt.Errorf("insert sequence %d: %w", i, err)
		}
	}

	var best interface{}
	if len(seqs) > 0 {
		best = int64(seqs[0].Score)
	}
	res, err := tx.Exec(
		`UPDATE runs SET sequences = ?, best_score = ? WHERE run_id = ?`,
		len(seqs), best, runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}

	return tx.Commit()
}
// #endregion save-sequences

// #region get-run
// GetRun retrieves a run by ID.
func (s *Store) GetRun(id string) (RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT run_id, trace_path, frames, states, sequences, best_score, config_yaml, created_at
		 FROM runs WHERE run_id = ?`, id,
	)
	rec, err := scanRun(row)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}
// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, trace_path, frames, states, sequences, best_score, config_yaml, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
// #endregion list-runs

// #region load-sequences
// LoadSequences returns a run's sequences in rank order.
func (s *Store) LoadSequences(runID string) ([]search.Sequence, error) {
	rows, err := s.db.Query(
		`SELECT score, inputs FROM sequences WHERE run_id = ? ORDER BY rank`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load sequences: %w", err)
	}
	defer rows.Close()

	var seqs []search.Sequence
	for rows.Next() {
		var score int64
		var encoded string
		if err := rows.Scan(&score, &encoded); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		inputs, err := neck.DecodeSequence(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode sequence: %w", err)
		}
		seqs = append(seqs, search.Sequence{Inputs: inputs, Score: uint64(score)})
	}
	return seqs, rows.Err()
}
// #endregion load-sequences

// #region helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var rec RunRecord
	var best sql.NullInt64
	var configYAML sql.NullString
	var createdStr string

	err := sc.Scan(&rec.ID, &rec.TracePath, &rec.Frames, &rec.States, &rec.Sequences, &best, &configYAML, &createdStr)
	if err != nil {
		return RunRecord{}, err
	}
	if best.Valid {
		rec.BestScore = uint64(best.Int64)
	}
	if configYAML.Valid {
		rec.ConfigYAML = configYAML.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return rec, nil
}

func bestScore(rec RunRecord) interface{} {
	if rec.Sequences == 0 {
		return nil
	}
	return int64(rec.BestScore)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
