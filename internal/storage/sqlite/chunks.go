// ABOUTME: Chunk storage operations for SQLite
// ABOUTME: Batched inserts, worklist queries, and translation writes with NULL semantics
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/booksllm/granth/internal/models"
)

// InsertBatchSize is the number of chunk rows written per transaction.
const InsertBatchSize = 100

// ChunkStore handles chunk persistence
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// InsertChunks writes chunks in batches of InsertBatchSize rows per
// transaction. A failed batch is rolled back whole; the error names the
// first chunk of the batch so the caller can locate the bad row.
func (s *ChunkStore) InsertChunks(chunks []models.Chunk) error {
	for start := 0; start < len(chunks); start += InsertBatchSize {
		end := start + InsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := s.insertBatch(chunks[start:end]); err != nil {
			return fmt.Errorf("inserting batch starting at chunk %d: %w", chunks[start].ChunkID, err)
		}
	}
	return nil
}

func (s *ChunkStore) insertBatch(batch []models.Chunk) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (chunk_id, section, content, char_count, translation, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range batch {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		if _, err := stmt.Exec(c.ChunkID, c.Section, c.Content, c.CharCount,
			nullString(c.Translation), createdAt); err != nil {
			return fmt.Errorf("chunk %d: %w", c.ChunkID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a chunk by ID. Returns nil when the chunk does not exist.
func (s *ChunkStore) Get(chunkID int) (*models.Chunk, error) {
	row := s.db.QueryRow(`
		SELECT chunk_id, section, content, char_count, translation, created_at
		FROM chunks
		WHERE chunk_id = ?
	`, chunkID)

	chunk, err := scanChunk(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// Untranslated returns chunks with a NULL translation in [startID, endID],
// ordered by chunk ID. An endID of 0 means unbounded.
func (s *ChunkStore) Untranslated(startID, endID int) ([]models.Chunk, error) {
	query := `
		SELECT chunk_id, section, content, char_count, translation, created_at
		FROM chunks
		WHERE translation IS NULL AND chunk_id >= ?
	`
	args := []interface{}{startID}
	if endID > 0 {
		query += " AND chunk_id <= ?"
		args = append(args, endID)
	}
	query += " ORDER BY chunk_id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// ByRange returns all chunks in [startID, endID] regardless of translation
// state, ordered by chunk ID. An endID of 0 means unbounded.
func (s *ChunkStore) ByRange(startID, endID int) ([]models.Chunk, error) {
	query := `
		SELECT chunk_id, section, content, char_count, translation, created_at
		FROM chunks
		WHERE chunk_id >= ?
	`
	args := []interface{}{startID}
	if endID > 0 {
		query += " AND chunk_id <= ?"
		args = append(args, endID)
	}
	query += " ORDER BY chunk_id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// SetTranslation writes the translation (or sentinel) for a chunk.
func (s *ChunkStore) SetTranslation(chunkID int, translation string) error {
	result, err := s.db.Exec(`
		UPDATE chunks SET translation = ? WHERE chunk_id = ?
	`, nullString(translation), chunkID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("chunk %d not found", chunkID)
	}
	return nil
}

// SearchContent returns chunks whose content or translation contains the
// query substring, ordered by chunk ID.
func (s *ChunkStore) SearchContent(query string, limit int) ([]models.Chunk, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT chunk_id, section, content, char_count, translation, created_at
		FROM chunks
		WHERE content LIKE ? OR translation LIKE ?
		ORDER BY chunk_id ASC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanChunks(rows)
}

// CountRange returns the number of chunks in [startID, endID].
func (s *ChunkStore) CountRange(startID, endID int) (int, error) {
	return s.count("", startID, endID)
}

// CountTranslated returns the number of chunks in [startID, endID] with a
// non-NULL translation (real translations and sentinels alike).
func (s *ChunkStore) CountTranslated(startID, endID int) (int, error) {
	return s.count("translation IS NOT NULL", startID, endID)
}

// CountUntranslated returns the number of pending chunks in [startID, endID].
func (s *ChunkStore) CountUntranslated(startID, endID int) (int, error) {
	return s.count("translation IS NULL", startID, endID)
}

func (s *ChunkStore) count(cond string, startID, endID int) (int, error) {
	query := "SELECT COUNT(*) FROM chunks WHERE chunk_id >= ?"
	args := []interface{}{startID}
	if endID > 0 {
		query += " AND chunk_id <= ?"
		args = append(args, endID)
	}
	if cond != "" {
		query += " AND " + cond
	}

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MaxChunkID returns the highest stored chunk ID, or 0 for an empty store.
func (s *ChunkStore) MaxChunkID() (int, error) {
	var max sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(chunk_id) FROM chunks").Scan(&max); err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

// Sections returns the distinct section headings in chunk ID order.
func (s *ChunkStore) Sections() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT section FROM chunks GROUP BY section ORDER BY MIN(chunk_id)
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sections []string
	for rows.Next() {
		var sec string
		if err := rows.Scan(&sec); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChunk(row rowScanner) (*models.Chunk, error) {
	var (
		chunk       models.Chunk
		translation sql.NullString
	)
	if err := row.Scan(&chunk.ChunkID, &chunk.Section, &chunk.Content,
		&chunk.CharCount, &translation, &chunk.CreatedAt); err != nil {
		return nil, err
	}
	if translation.Valid {
		chunk.Translation = translation.String
	}
	return &chunk, nil
}

func scanChunks(rows *sql.Rows) ([]models.Chunk, error) {
	var chunks []models.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}
	return chunks, rows.Err()
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
