// Package search provides document similarity-search clients.
//
// Ranking, indexing and tie-breaking are owned entirely by the backend;
// clients here only forward a query embedding with a threshold and a
// result cap.
package search

import (
	"context"

	"github.com/aayud22/ayushi.dev/internal/models"
)

// Searcher finds documents similar to a query embedding. Results are
// returned in the backend's ranking order, already filtered to hits at or
// above threshold, capped at limit.
type Searcher interface {
	MatchDocuments(ctx context.Context, embedding []float32, threshold float64, limit int) ([]models.RetrievedDocument, error)
}
