// ABOUTME: CLI command to run the resilient translation pipeline
// ABOUTME: Preflights the worklist, builds the configured provider, and drives the orchestrator
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/booksllm/granth/internal/config"
	"github.com/booksllm/granth/internal/core"
	"github.com/booksllm/granth/internal/llm"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

var (
	translateDB       string
	translateStart    int
	translateEnd      int
	translateYes      bool
	translateProvider string
)

// NewTranslateCmd creates the translate command
func NewTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate untranslated chunks",
		Long: `Translate every chunk in the range that has no stored translation.

Each result is written immediately, so an interrupted run loses at most
the chunk in flight. Re-running continues from the remaining worklist.
Degenerate chunks (empty, too short, purely numeric) are skipped with a
sentinel and never sent to the provider.

The worklist size is printed before anything runs; pass --yes to
proceed without confirmation.

Examples:
  granth translate --yes
  granth translate --start 100 --end 200 --yes
  granth translate --provider ollama --yes`,
		RunE: runTranslate,
	}

	cmd.Flags().StringVar(&translateDB, "db", "", "Database path (default from GRANTH_DB)")
	cmd.Flags().IntVar(&translateStart, "start", 1, "First chunk ID to translate")
	cmd.Flags().IntVar(&translateEnd, "end", 0, "Last chunk ID to translate (0 = no bound)")
	cmd.Flags().BoolVar(&translateYes, "yes", false, "Proceed without confirmation")
	cmd.Flags().StringVar(&translateProvider, "provider", "", "Translation provider (openai, ollama)")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if translateProvider != "" {
		cfg.Provider = translateProvider
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if err := validatePositiveInt(translateStart, "start"); err != nil {
		return err
	}
	if translateEnd != 0 && translateEnd < translateStart {
		return fmt.Errorf("end %d is below start %d", translateEnd, translateStart)
	}

	db, err := openStore(cfg, translateDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	chunks := sqlite.NewChunkStore(db)
	runs := sqlite.NewRunStore(db)

	// Preflight: size the job before touching the provider.
	pending, err := chunks.CountUntranslated(translateStart, translateEnd)
	if err != nil {
		return fmt.Errorf("counting worklist: %w", err)
	}
	if pending == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to do: range %s is fully translated\n",
				rangeLabel(translateStart, translateEnd))
		}
		return nil
	}
	if !translateYes {
		fmt.Fprintf(cmd.OutOrStdout(), "%d untranslated chunks in range %s\n",
			pending, rangeLabel(translateStart, translateEnd))
		return fmt.Errorf("re-run with --yes to translate %d chunks", pending)
	}

	client, err := buildTranslator(cfg)
	if err != nil {
		return err
	}
	policy := llm.NewRetryingTranslator(client, llm.WithMaxAttempts(cfg.MaxAttempts))

	orchestrator := core.NewOrchestrator(chunks, policy,
		core.WithRunStore(runs),
		core.WithSplitThreshold(cfg.SplitThreshold),
		core.WithProgressOutput(cmd.OutOrStdout()),
	)

	// Interrupts finish the chunk in flight, record the partial run, and exit.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := orchestrator.Run(ctx, translateStart, translateEnd)
	if err != nil {
		if run != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "interrupted: %d translated, %d skipped, %d failed\n",
				run.Translated, run.Skipped, run.Failed)
		}
		return err
	}

	// The store, not the in-memory tally, is the authority on completion.
	report, err := orchestrator.Verify(translateStart, translateEnd)
	if err != nil {
		return fmt.Errorf("verifying run: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "store-verified: %d/%d translated (%.1f%%) in range %s\n",
			report.Translated, report.Total, report.Percent,
			rangeLabel(translateStart, translateEnd))
	}
	return nil
}

// buildTranslator constructs the configured provider client.
func buildTranslator(cfg *config.Config) (llm.Translator, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return llm.NewOllamaClient(&llm.OllamaConfig{
			Host:       cfg.OllamaHost,
			Model:      cfg.OllamaModel,
			SourceLang: cfg.SourceLang,
			TargetLang: cfg.TargetLang,
			Timeout:    cfg.Timeout,
		})
	default:
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
		return llm.NewOpenAIClient(&llm.ClientConfig{
			APIKey:     cfg.OpenAIKey,
			Model:      cfg.TranslateModel,
			SourceLang: cfg.SourceLang,
			TargetLang: cfg.TargetLang,
			Timeout:    cfg.Timeout,
		})
	}
}
