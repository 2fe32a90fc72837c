package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/faqpilot/faqpilot/internal/app"
	"github.com/faqpilot/faqpilot/internal/config"
	"github.com/faqpilot/faqpilot/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol server on stdio transport.

Exposes the FAQ pipeline as tools (faq_answer, faq_directory, faq_reload)
for MCP hosts such as Claude Desktop and Cursor. All logging goes to
stderr; stdout carries JSON-RPC frames only.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMCP()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("starting MCP server", "version", Version)

	a, err := app.Setup(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			slog.Warn("shutdown error", "error", closeErr)
		}
	}()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Name:    "faqpilot",
		Version: Version,
		Agent:   a.Agent,
		Store:   a.Store,
		Logger:  slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	slog.Info("MCP server ready", "name", "faqpilot", "version", Version, "transport", "stdio")

	if err := mcpServer.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	slog.Info("MCP server shut down gracefully")
	return nil
}
