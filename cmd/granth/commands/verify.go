// ABOUTME: CLI command to report store-verified translation completion
// ABOUTME: Recounts chunk state directly from SQLite rather than trusting run tallies
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/booksllm/granth/internal/config"
	"github.com/booksllm/granth/internal/storage/sqlite"
)

var (
	verifyDB    string
	verifyStart int
	verifyEnd   int
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify translation completion against the store",
		Long: `Verify translation completion for an ID range.

Counts come straight from the database: a chunk counts as translated
when its translation column is non-null, whether that is a real
translation or a sentinel.

Examples:
  granth verify
  granth verify --start 100 --end 200
  granth verify --format json`,
		RunE: runVerify,
	}

	cmd.Flags().StringVar(&verifyDB, "db", "", "Database path (default from GRANTH_DB)")
	cmd.Flags().IntVar(&verifyStart, "start", 1, "First chunk ID to verify")
	cmd.Flags().IntVar(&verifyEnd, "end", 0, "Last chunk ID to verify (0 = no bound)")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := validatePositiveInt(verifyStart, "start"); err != nil {
		return err
	}

	db, err := openStore(cfg, verifyDB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	chunks := sqlite.NewChunkStore(db)
	total, err := chunks.CountRange(verifyStart, verifyEnd)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}
	translated, err := chunks.CountTranslated(verifyStart, verifyEnd)
	if err != nil {
		return fmt.Errorf("counting translated chunks: %w", err)
	}

	var percent float64
	if total > 0 {
		percent = 100 * float64(translated) / float64(total)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(map[string]interface{}{
			"start_id":     verifyStart,
			"end_id":       verifyEnd,
			"total":        total,
			"translated":   translated,
			"untranslated": total - translated,
			"percent":      percent,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANGE\tTOTAL\tTRANSLATED\tPENDING\tCOMPLETE\n")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f%%\n",
		rangeLabel(verifyStart, verifyEnd), total, translated, total-translated, percent)
	_ = w.Flush()

	return nil
}
