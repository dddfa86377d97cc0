// ABOUTME: CLI command to ingest a DTBook XML document into chunk storage
// ABOUTME: Streams heading/paragraph events through the assembler and batch-inserts chunks
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/booksllm/granth/internal/config"
	"github.com/booksllm/granth/internal/core"
	"github.com/booksllm/granth/internal/dtbook"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

var (
	ingestDB        string
	ingestChunkSize int
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file.xml>",
		Short: "Ingest a DTBook XML document into chunks",
		Long: `Ingest a DTBook XML document into size-bounded chunks.

Paragraphs are concatenated in document order until the chunk budget
would be exceeded; a paragraph longer than the budget becomes its own
chunk. Chunk IDs continue after the highest existing ID, so multiple
documents can share one database.

Examples:
  granth ingest rigveda.xml
  granth ingest --chunk-size 500 rigveda.xml
  granth ingest --db /tmp/test.db rigveda.xml`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestDB, "db", "", "Database path (default from GRANTH_DB)")
	cmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "Chunk budget in characters (default from GRANTH_CHUNK_SIZE)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	chunkSize := cfg.ChunkSize
	if ingestChunkSize > 0 {
		chunkSize = ingestChunkSize
	}
	if err := validatePositiveInt(chunkSize, "chunk-size"); err != nil {
		return err
	}

	db, err := openStore(cfg, ingestDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store := sqlite.NewChunkStore(db)

	assembler := core.NewAssembler(chunkSize)
	if err := dtbook.ParseFile(args[0], assembler); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	chunks := assembler.Finish()
	if len(chunks) == 0 {
		return fmt.Errorf("no text content found in %s", args[0])
	}

	// Continue numbering after any previously ingested document.
	offset, err := store.MaxChunkID()
	if err != nil {
		return fmt.Errorf("reading existing chunks: %w", err)
	}
	if offset > 0 {
		for i := range chunks {
			chunks[i].ChunkID += offset
		}
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "continuing after existing chunk %d\n", offset)
		}
	}

	if err := store.InsertChunks(chunks); err != nil {
		return fmt.Errorf("storing chunks: %w", err)
	}

	if !quiet {
		total := 0
		for _, c := range chunks {
			total += c.CharCount
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Ingested %d chunks (%d characters) into %s\n",
			len(chunks), total, db.Path())
	}
	return nil
}
