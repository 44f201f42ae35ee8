package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aayud22/ayushi.dev/internal/config"
	"github.com/aayud22/ayushi.dev/internal/ingest"
	"github.com/aayud22/ayushi.dev/internal/llm"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Embed portfolio content and load it into the document store",
	Long: `Embed portfolio content from a YAML file and load it into the
document store, one document per entry.

Entries are identified by type and title, so re-running with an updated
file overwrites instead of duplicating.

Example:
  portfolio ingest portfolio.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	if cfg.SearchProvider != config.SearchSurrealDB {
		return fmt.Errorf("ingest writes to the surrealdb backend; supabase content is managed through its own tooling")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	embedder, err := llm.NewEmbedder(cfg, nil)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}

	store, err := newStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("connect to document store: %w", err)
	}
	defer store.Close(ctx) //nolint:errcheck

	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	count, err := ingest.New(embedder, store, logger).Run(ctx, args[0])
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Printf("Ingested %d entries\n", count)
	return nil
}
