// ABOUTME: Tests for the translate command's preflight behavior
// ABOUTME: Confirms the worklist gate and the nothing-to-do path without a provider

package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/booksllm/granth/internal/models"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

func seedChunks(t *testing.T, dbPath string, translated bool) {
	t.Helper()
	db, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer func() { _ = db.Close() }()

	store := sqlite.NewChunkStore(db)
	chunks := []models.Chunk{
		{ChunkID: 1, Section: "One", Content: "some verse text", CharCount: 15},
		{ChunkID: 2, Section: "One", Content: "another verse text", CharCount: 18},
	}
	if err := store.InsertChunks(chunks); err != nil {
		t.Fatalf("inserting: %v", err)
	}
	if translated {
		for _, c := range chunks {
			if err := store.SetTranslation(c.ChunkID, "done"); err != nil {
				t.Fatalf("setting translation: %v", err)
			}
		}
	}
}

func TestTranslateCmd_RefusesWithoutYes(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "granth.db")
	seedChunks(t, dbPath, false)

	out, err := runCLI(t, "translate", "--db", dbPath)
	if err == nil {
		t.Fatal("expected refusal without --yes")
	}
	if !strings.Contains(err.Error(), "--yes") {
		t.Errorf("error should mention --yes: %v", err)
	}
	if !strings.Contains(out, "2 untranslated chunks") {
		t.Errorf("preflight count missing from output: %q", out)
	}
}

func TestTranslateCmd_NothingToDo(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "granth.db")
	seedChunks(t, dbPath, true)

	out, err := runCLI(t, "translate", "--db", dbPath, "--yes")
	if err != nil {
		t.Fatalf("fully translated range should succeed: %v", err)
	}
	if !strings.Contains(out, "Nothing to do") {
		t.Errorf("output = %q", out)
	}
}

func TestTranslateCmd_InvalidRange(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "granth.db")
	seedChunks(t, dbPath, false)

	if _, err := runCLI(t, "translate", "--db", dbPath, "--start", "10", "--end", "5"); err == nil {
		t.Error("end below start should error")
	}
	if _, err := runCLI(t, "translate", "--db", dbPath, "--start", "0"); err == nil {
		t.Error("non-positive start should error")
	}
}

func TestTranslateCmd_UnknownProvider(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "granth.db")
	seedChunks(t, dbPath, false)

	if _, err := runCLI(t, "translate", "--db", dbPath, "--yes", "--provider", "bedrock"); err == nil {
		t.Error("unknown provider should error")
	}
}
