package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aayud22/ayushi.dev/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the document store schema",
	Long: `Initialize the SurrealDB document store: the document table and its
vector index, sized to the configured embedding dimension.

Safe to run repeatedly; existing documents are kept.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if cfg.SearchProvider != config.SearchSurrealDB {
		return fmt.Errorf("init only applies to the surrealdb backend; for supabase, create the match_documents function in the dashboard")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	store, err := newStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("connect to document store: %w", err)
	}
	defer store.Close(ctx) //nolint:errcheck

	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	fmt.Printf("Document store ready (dimension %d)\n", cfg.EmbedDimension)
	return nil
}
