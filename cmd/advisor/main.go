package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/cmd/advisor/commands"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "advisor",
		Short: "Spiritual advice dataset CLI",
		Long: `advisor manages the spiritual advice dataset pipeline.

It cleans raw advice text, verifies that cleaning never invents
content, classifies the result into the advice taxonomy and stores
confirmed entries in the configured dataset backend.

Common workflows:
  advisor clean "raw transcript text"   # Clean text and show the changes
  advisor classify "some advice text"   # Run the full pipeline
  advisor ingest <youtube-url>          # Transcribe a video and process it
  advisor serve                         # Start the HTTP API server
  advisor stats                         # Show dataset statistics

For detailed help on any command, use:
  advisor <command> --help`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format: table, json, yaml")

	// Add subcommands
	rootCmd.AddCommand(commands.NewServeCmd())
	rootCmd.AddCommand(commands.NewCleanCmd())
	rootCmd.AddCommand(commands.NewClassifyCmd())
	rootCmd.AddCommand(commands.NewIngestCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
