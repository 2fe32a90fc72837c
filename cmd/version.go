package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via ldflags).
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() {
	fmt.Printf("faqpilot %s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)

	// Show whether a provider key is configured without printing it.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		fmt.Println("GEMINI_API_KEY: configured")
	} else {
		fmt.Println("GEMINI_API_KEY: not set")
	}
}
