// Package cli provides the command-line interface for the portfolio
// assistant.
package cli

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aayud22/ayushi.dev/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Loaded once in PersistentPreRun, shared by all commands.
	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "RAG chat assistant for a portfolio website",
	Long: `Portfolio is the retrieval-augmented chat assistant behind a personal
portfolio website.

It embeds visitor questions, retrieves the most relevant portfolio
documents by vector similarity, and streams an LLM answer grounded in
that context. The same binary serves the HTTP API, ingests portfolio
content, and offers an interactive terminal chat.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is fine; the environment still applies.
		_ = godotenv.Load()

		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statsCmd)
}
