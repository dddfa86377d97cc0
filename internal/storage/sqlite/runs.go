// ABOUTME: Run history persistence for SQLite
// ABOUTME: Records one row per orchestration run for auditing and progress tracking
package sqlite

import (
	"github.com/booksllm/granth/internal/models"
)

// RunStore handles run history persistence
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// SaveRun records a completed orchestration run.
func (s *RunStore) SaveRun(run *models.Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, start_id, end_id, found, translated, skipped, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartID, run.EndID, run.Found, run.Translated, run.Skipped,
		run.Failed, run.StartedAt, run.FinishedAt)
	return err
}

// Recent returns the most recent runs, newest first.
func (s *RunStore) Recent(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, start_id, end_id, found, translated, skipped, failed, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.StartID, &run.EndID, &run.Found,
			&run.Translated, &run.Skipped, &run.Failed,
			&run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
