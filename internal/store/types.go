package store

import "time"

// #region run-record
// RunRecord is one search run: the inputs it was given and what it found.
type RunRecord struct {
	ID         string    `json:"id"`
	TracePath  string    `json:"trace_path"`
	Frames     int       `json:"frames"`
	States     int       `json:"states"` // total states across all graph layers
	Sequences  int       `json:"sequences"`
	BestScore  uint64    `json:"best_score"` // meaningful only when Sequences > 0
	ConfigYAML string    `json:"config_yaml,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
// #endregion run-record
