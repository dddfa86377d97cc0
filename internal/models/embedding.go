// ABOUTME: Embedding models for vector storage and semantic search over chunks
// ABOUTME: Defines Embedding and SearchResult structures
package models

import "time"

// Embedding represents a stored embedding vector for a chunk's content.
type Embedding struct {
	ID        string    `json:"id"`
	ChunkID   int       `json:"chunk_id"`
	Model     string    `json:"model"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult pairs a chunk with its similarity score for a query vector.
type SearchResult struct {
	ChunkID int     `json:"chunk_id"`
	Score   float64 `json:"score"`
}
