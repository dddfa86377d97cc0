// ABOUTME: Embedding storage operations for SQLite
// ABOUTME: Implements vector storage as BLOB and cosine similarity search over chunks
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/booksllm/granth/internal/models"
)

// EmbeddingStore handles embedding persistence
type EmbeddingStore struct {
	db *DB
}

// NewEmbeddingStore creates a new EmbeddingStore
func NewEmbeddingStore(db *DB) *EmbeddingStore {
	return &EmbeddingStore{db: db}
}

// ExpectedDimension is the expected vector dimension for OpenAI embeddings
const ExpectedDimension = 1536

// Save saves an embedding vector for a chunk (validates 1536 dimension).
// An existing vector for the same chunk and model is replaced.
func (s *EmbeddingStore) Save(chunkID int, model string, vector []float64) error {
	if len(vector) != ExpectedDimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", ExpectedDimension, len(vector))
	}
	return s.saveVector(chunkID, model, vector)
}

// SaveWithDimension saves an embedding vector with custom dimension (for testing)
func (s *EmbeddingStore) SaveWithDimension(chunkID int, model string, vector []float64, expectedDim int) error {
	if len(vector) != expectedDim {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", expectedDim, len(vector))
	}
	return s.saveVector(chunkID, model, vector)
}

func (s *EmbeddingStore) saveVector(chunkID int, model string, vector []float64) error {
	blob := vectorToBlob(vector)

	_, err := s.db.Exec(`
		INSERT INTO embeddings (id, chunk_id, model, vector, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id, model) DO UPDATE SET
			vector = excluded.vector,
			created_at = excluded.created_at
	`, uuid.New().String(), chunkID, model, blob, time.Now())

	return err
}

// GetByChunkID retrieves the embedding for a chunk and model. Returns nil
// when no embedding exists.
func (s *EmbeddingStore) GetByChunkID(chunkID int, model string) (*models.Embedding, error) {
	var (
		emb  models.Embedding
		blob []byte
	)

	err := s.db.QueryRow(`
		SELECT id, chunk_id, model, vector, created_at
		FROM embeddings
		WHERE chunk_id = ? AND model = ?
	`, chunkID, model).Scan(&emb.ID, &emb.ChunkID, &emb.Model, &blob, &emb.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	emb.Vector = blobToVector(blob)
	return &emb, nil
}

// SearchSimilar performs cosine similarity search across all stored
// vectors for the given model.
func (s *EmbeddingStore) SearchSimilar(queryVector []float64, model string, maxResults int) ([]models.SearchResult, error) {
	rows, err := s.db.Query(`
		SELECT chunk_id, vector
		FROM embeddings
		WHERE model = ?
	`, model)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []models.SearchResult

	for rows.Next() {
		var (
			chunkID int
			blob    []byte
		)
		if err := rows.Scan(&chunkID, &blob); err != nil {
			return nil, err
		}

		results = append(results, models.SearchResult{
			ChunkID: chunkID,
			Score:   CosineSimilarity(queryVector, blobToVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// Unembedded returns IDs of chunks that have no embedding for the given
// model yet, in chunk ID order.
func (s *EmbeddingStore) Unembedded(model string) ([]int, error) {
	rows, err := s.db.Query(`
		SELECT c.chunk_id
		FROM chunks c
		LEFT JOIN embeddings e ON e.chunk_id = c.chunk_id AND e.model = ?
		WHERE e.id IS NULL
		ORDER BY c.chunk_id ASC
	`, model)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes the embedding for a chunk and model.
func (s *EmbeddingStore) Delete(chunkID int, model string) error {
	_, err := s.db.Exec("DELETE FROM embeddings WHERE chunk_id = ? AND model = ?", chunkID, model)
	return err
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
