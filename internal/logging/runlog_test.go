package logging

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE run_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		event      TEXT NOT NULL,
		frame      INTEGER,
		count      INTEGER,
		detail     TEXT,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// #endregion helpers

// #region log-event-tests
func TestLogEvent_Success(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	ev := Event{
		RunID:     "r1",
		Kind:      EventLayer,
		Frame:     3,
		Count:     1204,
		Detail:    "parallel",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := LogEvent(db, ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM run_log").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}

	var runID, kind string
	var frame, n int
	db.QueryRow("SELECT run_id, event, frame, count FROM run_log").Scan(&runID, &kind, &frame, &n)
	if runID != "r1" || kind != EventLayer {
		t.Errorf("expected r1/layer, got %q/%q", runID, kind)
	}
	if frame != 3 || n != 1204 {
		t.Errorf("expected frame 3 count 1204, got %d %d", frame, n)
	}
}

func TestLogEvent_ZeroCreatedAt(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	before := time.Now().UTC()
	if err := LogEvent(db, Event{RunID: "r2", Kind: EventValidated, Frame: -1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAtStr string
	db.QueryRow("SELECT created_at FROM run_log").Scan(&createdAtStr)
	createdAt, err := time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if createdAt.Before(before) {
		t.Error("expected auto-filled created_at to be >= test start time")
	}
}

func TestLogEvent_NullOptionalFields(t *testing.T) {
	db := setupDB(t)
	defer db.Close()

	if err := LogEvent(db, Event{RunID: "r3", Kind: EventExtracted, Frame: -1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var frame sql.NullInt64
	var detail sql.NullString
	db.QueryRow("SELECT frame, detail FROM run_log").Scan(&frame, &detail)
	if frame.Valid {
		t.Error("expected NULL frame for -1")
	}
	if detail.Valid {
		t.Error("expected NULL detail for empty string")
	}
}

func TestLogEvent_Error(t *testing.T) {
	db := setupDB(t)
	db.Close() // close to force error

	if err := LogEvent(db, Event{RunID: "r4", Kind: EventLayer}); err == nil {
		t.Fatal("expected error on closed db")
	}
}

// #endregion log-event-tests

// #region null-if-empty-tests
func TestNullIfEmpty_Empty(t *testing.T) {
	result := nullIfEmpty("")
	if result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestNullIfEmpty_NonEmpty(t *testing.T) {
	result := nullIfEmpty("hello")
	if result != "hello" {
		t.Errorf("expected 'hello', got %v", result)
	}
}

// #endregion null-if-empty-tests
