// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the granth command tree for the translation pipeline
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ███████  ██████   █████  ███    ██ ████████ ██   ██
██        ██   ██ ██   ██ ████   ██    ██    ██   ██
██   ███  ██████  ███████ ██ ██  ██    ██    ███████
██    ██  ██   ██ ██   ██ ██  ██ ██    ██    ██   ██
 ███████  ██   ██ ██   ██ ██   ████    ██    ██   ██
`

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "granth",
		Short: "Segment and translate marked-up texts",
		Long: banner + `
Granth ingests DTBook XML into size-bounded chunks, translates them
through a resilient retry pipeline, and tracks completion in SQLite.

Interrupted runs resume where they left off: only chunks without a
stored translation are picked up again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewTranslateCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewEmbedCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
