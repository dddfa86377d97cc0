// ABOUTME: Run records one orchestrator invocation for audit and reporting
// ABOUTME: Tallies are in-memory counters; the store is the authority for completion
package models

import "time"

// Run is the audit record of a single translation run over a chunk range.
// EndID of 0 means the range was unbounded above.
type Run struct {
	ID         string    `json:"id"`
	StartID    int       `json:"start_id"`
	EndID      int       `json:"end_id"`
	Found      int       `json:"found"`
	Translated int       `json:"translated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
