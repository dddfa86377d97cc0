// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Store setup, display truncation, and flag validation helpers
package commands

import (
	"fmt"

	"github.com/booksllm/granth/internal/config"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

// openStore opens the configured database, honoring a --db override.
func openStore(cfg *config.Config, dbOverride string) (*sqlite.DB, error) {
	path := cfg.DBPath
	if dbOverride != "" {
		path = dbOverride
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// rangeLabel renders an ID range for display; 0 means unbounded.
func rangeLabel(startID, endID int) string {
	if endID == 0 {
		return fmt.Sprintf("%d..end", startID)
	}
	return fmt.Sprintf("%d..%d", startID, endID)
}
