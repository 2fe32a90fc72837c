package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/faqpilot/faqpilot/internal/agent"
	"github.com/faqpilot/faqpilot/internal/app"
	"github.com/faqpilot/faqpilot/internal/config"
)

var (
	askChannel string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question against the FAQ",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askChannel, "channel", "cli", "channel the question arrives from (context for the rewrite step)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Warn("shutdown error", "error", closeErr)
		}
	}()

	question := strings.Join(args, " ")
	result, err := a.Agent.Process(ctx,
		[]agent.Turn{{Role: "user", Content: question}},
		map[string]string{"channel": askChannel},
	)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(result.Answer)
	if !result.Matched {
		fmt.Fprintln(os.Stderr, "(no FAQ category matched)")
	} else if result.Breadcrumb != "" {
		fmt.Fprintf(os.Stderr, "(category: %s)\n", result.Breadcrumb)
	}
	return nil
}
