// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes chunk search and translation status to LLM agents via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	openai "github.com/sashabaranov/go-openai"

	"github.com/booksllm/granth/internal/config"
	"github.com/booksllm/granth/internal/llm"
	"github.com/booksllm/granth/internal/mcp"
	"github.com/booksllm/granth/internal/storage/sqlite"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var mcpDB string

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents.

Runs granth as an MCP (Model Context Protocol) server, enabling LLM
agents to search the translated corpus and check pipeline status over
stdio. All tools are read-only.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  granth mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "granth": {
  #       "command": "granth",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().StringVar(&mcpDB, "db", "", "Database path (default from GRANTH_DB)")

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, err := openStore(cfg, mcpDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	chunks := sqlite.NewChunkStore(db)
	embeddings := sqlite.NewEmbeddingStore(db)

	// Semantic search is optional; without a key the tool reports itself
	// unavailable instead of failing startup.
	var embedder mcp.Embedder
	if cfg.OpenAIKey != "" {
		client, err := llm.NewEmbeddingClient(&llm.EmbeddingConfig{
			APIKey:  cfg.OpenAIKey,
			Model:   openai.EmbeddingModel(cfg.EmbeddingModel),
			Timeout: cfg.Timeout,
		})
		if err != nil {
			log.Printf("Warning: embedding client unavailable: %v", err)
		} else {
			embedder = client
		}
	} else if !quiet {
		log.Println("Warning: OPENAI_API_KEY not set - semantic search will be unavailable")
	}

	server := mcpserver.NewMCPServer(
		"Granth Translation Corpus",
		"0.1.0",
	)
	mcp.RegisterTools(server, chunks, embeddings, embedder, cfg.EmbeddingModel)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("granth MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, shutting down...")
		}
		return nil
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
