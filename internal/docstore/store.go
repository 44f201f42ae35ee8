// Package docstore provides a SurrealDB-backed portfolio document store
// with vector similarity search.
package docstore

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/aayud22/ayushi.dev/internal/models"
)

func init() {
	// Force HTTP/1.1 for WSS connections to prevent HTTP/2 ALPN negotiation.
	// WebSocket upgrade requires HTTP/1.1 semantics which fail under HTTP/2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// Config holds SurrealDB connection configuration.
type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string

	// Dimension is the embedding dimension for the HNSW index.
	Dimension int
}

// Store wraps a SurrealDB connection with auto-reconnect and exposes
// document upsert and similarity search.
type Store struct {
	conn   *rews.Connection[*gorillaws.Connection]
	db     *surrealdb.DB
	cfg    Config
	logger logger.Logger
}

// NewStore connects to SurrealDB with an auto-reconnecting WebSocket.
func NewStore(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	var sdkLogger logger.Logger
	if log != nil {
		sdkLogger = logger.New(log.Handler())
	} else {
		sdkLogger = logger.New(slog.Default().Handler())
	}

	// surrealcbor handles SurrealDB's custom CBOR tags
	codec := surrealcbor.New()

	// gorillaws requires a ws:// or wss:// URL without the /rpc suffix
	// (it appends /rpc internally)
	baseURL := strings.TrimSuffix(cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			ws := gorillaws.New(&connection.Config{
				BaseURL:     baseURL,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      sdkLogger,
			})
			return ws, nil
		},
		5*time.Second,
		codec,
		sdkLogger,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = 1 * time.Second
	retryer.MaxDelay = 30 * time.Second
	retryer.Multiplier = 2.0
	retryer.MaxRetries = 10
	conn.Retryer = retryer

	sdkLogger.Info("connecting to SurrealDB", "url", cfg.URL)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("from connection: %w", err)
	}

	if _, err := db.SignIn(ctx, surrealdb.Auth{
		Username: cfg.Username,
		Password: cfg.Password,
	}); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("signin: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("use: %w", err)
	}

	sdkLogger.Info("SurrealDB connection established")
	return &Store{conn: conn, db: db, cfg: cfg, logger: sdkLogger}, nil
}

// Close closes the SurrealDB connection.
func (s *Store) Close(ctx context.Context) error {
	s.logger.Info("closing SurrealDB connection")
	return s.conn.Close(ctx)
}

// InitSchema creates the document table and its HNSW index.
func (s *Store) InitSchema(ctx context.Context) error {
	s.logger.Info("initializing document schema", "dimension", s.cfg.Dimension)
	if _, err := surrealdb.Query[any](ctx, s.db, SchemaSQL(s.cfg.Dimension), nil); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// storedDocument is the document table row shape.
type storedDocument struct {
	Content   string         `json:"content"`
	Embedding []float32      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// matchResult is a search row: stored content plus the computed score.
type matchResult struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// UpsertDocument inserts or replaces a document identified by id.
func (s *Store) UpsertDocument(ctx context.Context, id, content string, embedding []float32, metadata map[string]any) error {
	if len(embedding) != s.cfg.Dimension {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(embedding), s.cfg.Dimension)
	}

	_, err := surrealdb.Query[any](ctx, s.db, `
		UPSERT type::record("document", $id) SET
			content = $content,
			embedding = $embedding,
			metadata = $metadata
	`, map[string]any{
		"id":        id,
		"content":   content,
		"embedding": embedding,
		"metadata":  metadata,
	})
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// CountDocuments returns the number of stored documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	type countRow struct {
		Count int `json:"count"`
	}
	results, err := surrealdb.Query[[]countRow](ctx, s.db, `
		SELECT count() AS count FROM document GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}

// MatchDocuments performs a KNN search over the HNSW index, keeps hits at
// or above threshold and returns at most limit documents in similarity
// order.
func (s *Store) MatchDocuments(ctx context.Context, embedding []float32, threshold float64, limit int) ([]models.RetrievedDocument, error) {
	// HNSW with ef=40 for better recall; the threshold filter runs over
	// the KNN candidates, so over-fetch is not needed beyond the cap.
	sql := fmt.Sprintf(`
		SELECT content, vector::similarity::cosine(embedding, $emb) AS similarity
		FROM document
		WHERE embedding <|%d,40|> $emb
			AND vector::similarity::cosine(embedding, $emb) >= $threshold
		ORDER BY similarity DESC
		LIMIT $limit
	`, limit)

	results, err := surrealdb.Query[[]matchResult](ctx, s.db, sql, map[string]any{
		"emb":       embedding,
		"threshold": threshold,
		"limit":     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("match documents: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.RetrievedDocument{}, nil
	}

	rows := (*results)[0].Result
	docs := make([]models.RetrievedDocument, 0, len(rows))
	for i, row := range rows {
		doc := models.RetrievedDocument{Content: row.Content, Similarity: row.Similarity}
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("match row %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// WipeData deletes all documents while preserving schema. Use for testing
// only.
func (s *Store) WipeData(ctx context.Context) error {
	s.logger.Warn("wiping all documents")
	if _, err := surrealdb.Query[any](ctx, s.db, "DELETE document", nil); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}
