package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/faqpilot/faqpilot/internal/config"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Print the FAQ classification directory",
	Long: `Print the classification directory rendered from the FAQ document:
every category key and description, indented by depth, without answers.
This is the exact text the classifier sees.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runDirectory()
	},
}

func init() {
	rootCmd.AddCommand(directoryCmd)
}

// runDirectory loads the taxonomy directly; no model provider is needed to
// render the directory.
func runDirectory() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := taxonomy.NewStore(cfg.TaxonomyPath, slog.Default())
	if err != nil {
		return fmt.Errorf("loading taxonomy: %w", err)
	}

	fmt.Print(store.RenderDirectory())
	return nil
}
