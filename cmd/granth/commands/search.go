// ABOUTME: CLI command to search stored chunks
// ABOUTME: Substring search by default, vector similarity with --semantic
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	openai "github.com/sashabaranov/go-openai"

	"github.com/booksllm/granth/internal/config"
	"github.com/booksllm/granth/internal/llm"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

var (
	searchDB       string
	searchLimit    int
	searchSemantic bool
)

// searchResult is the JSON shape emitted with --format json.
type searchResult struct {
	ChunkID     int     `json:"chunk_id"`
	Section     string  `json:"section"`
	Content     string  `json:"content"`
	Translation string  `json:"translation,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search stored chunks",
		Long: `Search chunks by substring across source text and translations.

With --semantic, the query is embedded and matched against stored chunk
vectors by cosine similarity instead.

Examples:
  granth search "अग्निमीळे"
  granth search --limit 10 "sacrifice"
  granth search --semantic "hymns praising fire"
  granth search --format json "Agni"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchDB, "db", "", "Database path (default from GRANTH_DB)")
	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")
	cmd.Flags().BoolVar(&searchSemantic, "semantic", false, "Use vector similarity search")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}
	query := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	db, err := openStore(cfg, searchDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	chunks := sqlite.NewChunkStore(db)

	var results []searchResult
	if searchSemantic {
		results, err = semanticResults(cmd, cfg, db, chunks, query)
	} else {
		results, err = substringResults(chunks, query)
	}
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if searchSemantic {
		fmt.Fprintf(w, "SCORE\tID\tSECTION\tPREVIEW\n")
	} else {
		fmt.Fprintf(w, "ID\tSECTION\tPREVIEW\tTRANSLATION\n")
	}
	for _, r := range results {
		if searchSemantic {
			fmt.Fprintf(w, "%.3f\t%d\t%s\t%s\n",
				r.Score, r.ChunkID, truncate(r.Section, 20), truncate(r.Content, 50))
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				r.ChunkID, truncate(r.Section, 20), truncate(r.Content, 40), truncate(r.Translation, 40))
		}
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}

func substringResults(chunks *sqlite.ChunkStore, query string) ([]searchResult, error) {
	found, err := chunks.SearchContent(query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	results := make([]searchResult, 0, len(found))
	for _, c := range found {
		results = append(results, searchResult{
			ChunkID:     c.ChunkID,
			Section:     c.Section,
			Content:     c.Content,
			Translation: c.Translation,
		})
	}
	return results, nil
}

func semanticResults(cmd *cobra.Command, cfg *config.Config, db *sqlite.DB, chunks *sqlite.ChunkStore, query string) ([]searchResult, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for semantic search")
	}
	client, err := llm.NewEmbeddingClient(&llm.EmbeddingConfig{
		APIKey:  cfg.OpenAIKey,
		Model:   openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing embedding client: %w", err)
	}

	vector, err := client.GenerateEmbedding(cmd.Context(), query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := sqlite.NewEmbeddingStore(db).SearchSimilar(vector, cfg.EmbeddingModel, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]searchResult, 0, len(matches))
	for _, m := range matches {
		chunk, err := chunks.Get(m.ChunkID)
		if err != nil || chunk == nil {
			continue
		}
		results = append(results, searchResult{
			ChunkID:     chunk.ChunkID,
			Section:     chunk.Section,
			Content:     chunk.Content,
			Translation: chunk.Translation,
			Score:       m.Score,
		})
	}
	return results, nil
}
