// Package ingest loads portfolio content into the document store, one
// embedded document per entry.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aayud22/ayushi.dev/internal/models"
)

// Embedder turns a batch of texts into vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentWriter stores embedded documents.
type DocumentWriter interface {
	UpsertDocument(ctx context.Context, id, content string, embedding []float32, metadata map[string]any) error
}

// Ingestor embeds portfolio entries and writes them to the store.
type Ingestor struct {
	embedder Embedder
	store    DocumentWriter
	logger   *slog.Logger
}

// New creates an ingestor.
func New(embedder Embedder, store DocumentWriter, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// LoadEntries parses a YAML file of portfolio entries.
func LoadEntries(path string) ([]models.PortfolioEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var entries []models.PortfolioEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, entry := range entries {
		if entry.Type == "" || entry.Title == "" {
			return nil, fmt.Errorf("entry %d: type and title are required", i)
		}
	}
	return entries, nil
}

// Run ingests the entries from the YAML file at path and returns the
// number of documents written. Entries are embedded in one batch, then
// upserted one by one; re-running with the same file overwrites rather
// than duplicates, because document IDs derive from type and title.
func (in *Ingestor) Run(ctx context.Context, path string) (int, error) {
	entries, err := LoadEntries(path)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	contents := make([]string, len(entries))
	for i, entry := range entries {
		serialized, err := json.Marshal(entry)
		if err != nil {
			return 0, fmt.Errorf("serialize entry %q: %w", entry.Title, err)
		}
		contents[i] = string(serialized)
	}

	embeddings, err := in.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return 0, fmt.Errorf("embed entries: %w", err)
	}
	if len(embeddings) != len(entries) {
		return 0, fmt.Errorf("embedding count mismatch: got %d for %d entries", len(embeddings), len(entries))
	}

	for i, entry := range entries {
		id := EntryID(entry)
		metadata := map[string]any{
			"type":  entry.Type,
			"title": entry.Title,
		}
		if entry.URL != "" {
			metadata["url"] = entry.URL
		}

		if err := in.store.UpsertDocument(ctx, id, contents[i], embeddings[i], metadata); err != nil {
			return i, fmt.Errorf("store entry %q: %w", entry.Title, err)
		}
		in.logger.Info("ingested entry", "type", entry.Type, "title", entry.Title)
	}

	return len(entries), nil
}

// EntryID derives a stable document ID from an entry's type and title.
func EntryID(entry models.PortfolioEntry) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(entry.Type+"/"+entry.Title)).String()
}
