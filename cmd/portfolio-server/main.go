// Package main provides the standalone HTTP server for the portfolio
// assistant.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aayud22/ayushi.dev/internal/chat"
	"github.com/aayud22/ayushi.dev/internal/config"
	"github.com/aayud22/ayushi.dev/internal/docstore"
	"github.com/aayud22/ayushi.dev/internal/llm"
	"github.com/aayud22/ayushi.dev/internal/mailer"
	"github.com/aayud22/ayushi.dev/internal/metrics"
	"github.com/aayud22/ayushi.dev/internal/search"
	"github.com/aayud22/ayushi.dev/internal/server"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all documents on startup (testing only)")
	flag.Parse()

	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("starting portfolio-server", "port", cfg.Port, "search", cfg.SearchProvider)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()

	embedder, err := llm.NewEmbedder(cfg, collector)
	if err != nil {
		fatal("failed to create embedder", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	model, err := llm.NewModel(initCtx, cfg, collector)
	cancel()
	if err != nil {
		fatal("failed to create model", err)
	}

	searcher, cleanup, err := newSearcher(ctx, cfg, logger, *wipeDB)
	if err != nil {
		fatal("failed to create search backend", err)
	}
	defer cleanup()

	svc := chat.NewService(embedder, searcher, model, chat.Options{
		MatchThreshold:  cfg.MatchThreshold,
		MatchCount:      cfg.MatchCount,
		UpstreamTimeout: cfg.UpstreamTimeout,
	}, collector)

	var contactMailer server.Mailer
	if cfg.ResendAPIKey != "" {
		m, err := mailer.NewResend(cfg.ResendAPIKey, cfg.ContactEmail, collector)
		if err != nil {
			fatal("failed to create mailer", err)
		}
		contactMailer = m
	} else {
		slog.Warn("RESEND_API_KEY not set, contact form disabled")
	}

	srv := server.New(svc, contactMailer, collector, logger, server.Options{
		Port:        cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
	})

	if err := srv.Run(ctx); err != nil {
		fatal("server error", err)
	}

	slog.Info("server stopped")
}

func newSearcher(ctx context.Context, cfg config.Config, logger *slog.Logger, wipe bool) (search.Searcher, func(), error) {
	switch cfg.SearchProvider {
	case config.SearchSupabase:
		client, err := search.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil

	case config.SearchSurrealDB:
		store, err := docstore.NewStore(ctx, docstore.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			Dimension: cfg.EmbedDimension,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := store.InitSchema(ctx); err != nil {
			return nil, nil, fmt.Errorf("initialize schema: %w", err)
		}
		if wipe {
			if err := store.WipeData(ctx); err != nil {
				return nil, nil, fmt.Errorf("wipe documents: %w", err)
			}
		}
		cleanup := func() {
			if err := store.Close(context.Background()); err != nil {
				slog.Warn("failed to close document store", "error", err)
			}
		}
		return store, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
