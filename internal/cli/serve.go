package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aayud22/ayushi.dev/internal/chat"
	"github.com/aayud22/ayushi.dev/internal/config"
	"github.com/aayud22/ayushi.dev/internal/docstore"
	"github.com/aayud22/ayushi.dev/internal/llm"
	"github.com/aayud22/ayushi.dev/internal/mailer"
	"github.com/aayud22/ayushi.dev/internal/metrics"
	"github.com/aayud22/ayushi.dev/internal/search"
	"github.com/aayud22/ayushi.dev/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server for the portfolio website.

Serves the streaming chat endpoint, the contact form relay, and
operational stats. Shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Printf("Warning: failed to close log file: %v\n", err)
		}
	}()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	embedder, err := llm.NewEmbedder(cfg, collector)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}

	model, err := llm.NewModel(ctx, cfg, collector)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}

	searcher, closeSearcher, err := newSearcher(ctx, logger)
	if err != nil {
		return fmt.Errorf("init search backend: %w", err)
	}
	defer closeSearcher()

	svc := chat.NewService(embedder, searcher, model, chat.Options{
		MatchThreshold:  cfg.MatchThreshold,
		MatchCount:      cfg.MatchCount,
		UpstreamTimeout: cfg.UpstreamTimeout,
	}, collector)

	var contactMailer server.Mailer
	if cfg.ResendAPIKey != "" {
		m, err := mailer.NewResend(cfg.ResendAPIKey, cfg.ContactEmail, collector)
		if err != nil {
			return fmt.Errorf("init mailer: %w", err)
		}
		contactMailer = m
	} else {
		logger.Warn("RESEND_API_KEY not set, contact form disabled")
	}

	srv := server.New(svc, contactMailer, collector, logger, server.Options{
		Port:        cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
	})

	return srv.Run(ctx)
}

// newSearcher creates the configured document search backend and a cleanup
// function.
func newSearcher(ctx context.Context, logger *slog.Logger) (search.Searcher, func(), error) {
	switch cfg.SearchProvider {
	case config.SearchSupabase:
		client, err := search.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil

	case config.SearchSurrealDB:
		store, err := newStore(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(context.Background()); err != nil {
				logger.Warn("failed to close document store", "error", err)
			}
		}
		return store, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}

// newStore connects to the SurrealDB document store.
func newStore(ctx context.Context, logger *slog.Logger) (*docstore.Store, error) {
	return docstore.NewStore(ctx, docstore.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		Dimension: cfg.EmbedDimension,
	}, logger)
}
