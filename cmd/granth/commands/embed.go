// ABOUTME: CLI command to generate embeddings for stored chunks
// ABOUTME: Embeds chunks that have no vector yet, skipping sentinel-only content
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	openai "github.com/sashabaranov/go-openai"

	"github.com/booksllm/granth/internal/config"
	"github.com/booksllm/granth/internal/llm"
	"github.com/booksllm/granth/internal/models"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

var (
	embedDB    string
	embedLimit int
)

// NewEmbedCmd creates the embed command
func NewEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate embeddings for chunks without one",
		Long: `Generate vector embeddings for chunk content.

Only chunks with no stored vector for the configured model are
embedded, so the command is resumable like translation. Chunks whose
content classifies as degenerate (empty, too short, numeric) are
skipped.

Examples:
  granth embed
  granth embed --limit 100`,
		RunE: runEmbed,
	}

	cmd.Flags().StringVar(&embedDB, "db", "", "Database path (default from GRANTH_DB)")
	cmd.Flags().IntVar(&embedLimit, "limit", 0, "Maximum chunks to embed this run (0 = no limit)")

	return cmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for embeddings")
	}

	db, err := openStore(cfg, embedDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	chunks := sqlite.NewChunkStore(db)
	embeddings := sqlite.NewEmbeddingStore(db)

	client, err := llm.NewEmbeddingClient(&llm.EmbeddingConfig{
		APIKey:  cfg.OpenAIKey,
		Model:   openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("initializing embedding client: %w", err)
	}

	ids, err := embeddings.Unembedded(cfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("finding unembedded chunks: %w", err)
	}
	if embedLimit > 0 && len(ids) > embedLimit {
		ids = ids[:embedLimit]
	}
	if len(ids) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do: all chunks are embedded")
		}
		return nil
	}

	var embedded, skipped, failed int
	for _, id := range ids {
		chunk, err := chunks.Get(id)
		if err != nil || chunk == nil {
			failed++
			continue
		}
		if models.ClassifyContent(chunk.Content) != models.ClassTranslatable {
			skipped++
			continue
		}

		vector, err := client.GenerateEmbedding(cmd.Context(), chunk.Content)
		if err != nil {
			failed++
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "chunk %d: %v\n", id, err)
			}
			continue
		}
		if err := embeddings.Save(id, cfg.EmbeddingModel, vector); err != nil {
			failed++
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "chunk %d: storing vector: %v\n", id, err)
			}
			continue
		}
		embedded++
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Embedded %d chunks (%d skipped, %d failed)\n",
			embedded, skipped, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d chunks failed to embed", failed)
	}
	return nil
}
