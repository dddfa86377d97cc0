// ABOUTME: MCP tool definitions and registration for the granth server
// ABOUTME: Exposes read-only chunk search, lookup, and status tools over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/booksllm/granth/internal/storage/sqlite"
)

// RegisterTools registers all MCP tools with the server. The embedder may
// be nil, in which case semantic search reports that it is unavailable.
func RegisterTools(server *mcpserver.MCPServer, chunks *sqlite.ChunkStore, embeddings *sqlite.EmbeddingStore, embedder Embedder, embeddingModel string) *Handlers {
	handlers := &Handlers{
		chunks:         chunks,
		embeddings:     embeddings,
		embedder:       embedder,
		embeddingModel: embeddingModel,
	}

	// 1. search_chunks - substring search over source text and translations
	server.AddTool(mcp.Tool{
		Name:        "search_chunks",
		Description: "Search stored text chunks by substring, matching both the source text and its translation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Substring to search for",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default 10)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchChunks)

	// 2. semantic_search - embedding-based similarity search
	server.AddTool(mcp.Tool{
		Name:        "semantic_search",
		Description: "Find chunks semantically similar to a query using vector embeddings.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default 5)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SemanticSearch)

	// 3. get_chunk - retrieve one chunk by ID
	server.AddTool(mcp.Tool{
		Name:        "get_chunk",
		Description: "Retrieve a single chunk by its ID, including its section, source text, and translation if present.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chunk_id": map[string]interface{}{
					"type":        "number",
					"description": "Chunk ID to retrieve",
				},
			},
			Required: []string{"chunk_id"},
		},
	}, handlers.GetChunk)

	// 4. translation_status - store-verified completion counts
	server.AddTool(mcp.Tool{
		Name:        "translation_status",
		Description: "Report how many chunks in an ID range are translated, counted directly from the store.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"start_id": map[string]interface{}{
					"type":        "number",
					"description": "First chunk ID of the range (default 1)",
				},
				"end_id": map[string]interface{}{
					"type":        "number",
					"description": "Last chunk ID of the range (default: no upper bound)",
				},
			},
		},
	}, handlers.TranslationStatus)

	return handlers
}
