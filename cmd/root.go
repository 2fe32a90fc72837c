// Package cmd provides the faqpilot CLI commands.
//
// Commands:
//   - serve: HTTP API server exposing the FAQ flow
//   - mcp: Model Context Protocol server for IDE and assistant integration
//   - ask: one-shot question from the command line
//   - directory: print the classification directory
//   - version: version information
//
// Signal handling and graceful shutdown are implemented for the long-running
// commands via context cancellation.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/faqpilot/faqpilot/internal/log"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "faqpilot",
	Short: "FAQ classification and retrieval agent",
	Long: `faqpilot answers customer support questions from a curated FAQ.

It rewrites a support conversation into a standalone query, classifies the
query against the FAQ category directory, and returns the stored answer for
the matched category, or a fallback when nothing matches.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := slog.LevelInfo
		if debug || os.Getenv("DEBUG") != "" {
			level = slog.LevelDebug
		}
		// Logs go to stderr: stdout carries answers (ask, directory) and
		// JSON-RPC frames (mcp).
		slog.SetDefault(log.New(log.Config{Level: level}))
	},
}

// Execute runs the root command. Called from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
