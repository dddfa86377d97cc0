// ABOUTME: MCP tool handler implementations for the granth server
// ABOUTME: Read-only handlers over the chunk and embedding stores
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/booksllm/granth/internal/models"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

// Embedder generates a query vector for semantic search.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	chunks         *sqlite.ChunkStore
	embeddings     *sqlite.EmbeddingStore
	embedder       Embedder
	embeddingModel string
}

// chunkView is the JSON shape returned for a chunk.
type chunkView struct {
	ChunkID     int     `json:"chunk_id"`
	Section     string  `json:"section"`
	Content     string  `json:"content"`
	CharCount   int     `json:"char_count"`
	Translation string  `json:"translation,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

func viewOf(c *models.Chunk) chunkView {
	return chunkView{
		ChunkID:     c.ChunkID,
		Section:     c.Section,
		Content:     c.Content,
		CharCount:   c.CharCount,
		Translation: c.Translation,
	}
}

// SearchChunks handles the search_chunks tool
func (h *Handlers) SearchChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 10)

	chunks, err := h.chunks.SearchContent(query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	views := make([]chunkView, 0, len(chunks))
	for i := range chunks {
		views = append(views, viewOf(&chunks[i]))
	}

	responseJSON, err := json.MarshalIndent(map[string]interface{}{
		"query":   query,
		"results": views,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SemanticSearch handles the semantic_search tool
func (h *Handlers) SemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	if h.embedder == nil {
		return mcp.NewToolResultError("semantic search unavailable: no embedding provider configured"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	vector, err := h.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding query: %v", err)), nil
	}

	matches, err := h.embeddings.SearchSimilar(vector, h.embeddingModel, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity search failed: %v", err)), nil
	}

	views := make([]chunkView, 0, len(matches))
	for _, m := range matches {
		chunk, err := h.chunks.Get(m.ChunkID)
		if err != nil || chunk == nil {
			continue
		}
		v := viewOf(chunk)
		v.Score = m.Score
		views = append(views, v)
	}

	responseJSON, err := json.MarshalIndent(map[string]interface{}{
		"query":   query,
		"results": views,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetChunk handles the get_chunk tool
func (h *Handlers) GetChunk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chunkID := request.GetInt("chunk_id", 0)
	if chunkID <= 0 {
		return mcp.NewToolResultError("chunk_id argument is required and must be a positive number"), nil
	}

	chunk, err := h.chunks.Get(chunkID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if chunk == nil {
		return mcp.NewToolResultError(fmt.Sprintf("chunk %d not found", chunkID)), nil
	}

	responseJSON, err := json.MarshalIndent(viewOf(chunk), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// TranslationStatus handles the translation_status tool
func (h *Handlers) TranslationStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startID := request.GetInt("start_id", 1)
	endID := request.GetInt("end_id", 0)

	total, err := h.chunks.CountRange(startID, endID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("counting chunks: %v", err)), nil
	}
	translated, err := h.chunks.CountTranslated(startID, endID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("counting translated chunks: %v", err)), nil
	}

	var percent float64
	if total > 0 {
		percent = 100 * float64(translated) / float64(total)
	}

	responseJSON, err := json.MarshalIndent(map[string]interface{}{
		"start_id":     startID,
		"end_id":       endID,
		"total":        total,
		"translated":   translated,
		"untranslated": total - translated,
		"percent":      percent,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
