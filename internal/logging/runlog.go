package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region event
// Event kinds written to run_log.
const (
	EventValidated = "validated"
	EventLayer     = "layer"     // forward graph layer built
	EventBackstep  = "backstep"  // backward extraction frame
	EventExtracted = "extracted"
)

// Event is a single row in the run_log table.
type Event struct {
	RunID     string
	Kind      string
	Frame     int // -1 when not tied to a frame
	Count     int
	Detail    string
	CreatedAt time.Time
}
// #endregion event

// #region log-event
// LogEvent writes an event to the run_log table.
func LogEvent(db *sql.DB, ev Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	var frame interface{}
	if ev.Frame >= 0 {
		frame = ev.Frame
	}

	_, err := db.Exec(
		`INSERT INTO run_log (run_id, event, frame, count, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ev.RunID,
		ev.Kind,
		frame,
		ev.Count,
		nullIfEmpty(ev.Detail),
		ev.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}
// #endregion log-event

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
