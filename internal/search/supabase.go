package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aayud22/ayushi.dev/internal/models"
)

// matchDocumentsPath is the PostgREST path of the similarity-search
// function installed in the Supabase project.
const matchDocumentsPath = "/rest/v1/rpc/match_documents"

// SupabaseClient implements Searcher against a Supabase match_documents
// RPC. No retry, no circuit breaking, no caching.
type SupabaseClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Compile-time check that SupabaseClient implements Searcher.
var _ Searcher = (*SupabaseClient)(nil)

// NewSupabaseClient creates a search client for the given project URL and
// service key.
func NewSupabaseClient(baseURL, apiKey string) (*SupabaseClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("supabase URL required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase API key required")
	}

	return &SupabaseClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{},
	}, nil
}

// matchRequest is the RPC parameter payload.
type matchRequest struct {
	QueryEmbedding []float32 `json:"query_embedding"`
	MatchThreshold float64   `json:"match_threshold"`
	MatchCount     int       `json:"match_count"`
}

// matchRow is one row returned by the RPC. Fields the pipeline does not
// consume (id, metadata) are ignored on decode.
type matchRow struct {
	Content    *string `json:"content"`
	Similarity float64 `json:"similarity"`
}

// MatchDocuments calls the match_documents RPC and validates each row.
// A row without content is a malformed response, not an empty result.
func (c *SupabaseClient) MatchDocuments(ctx context.Context, embedding []float32, threshold float64, limit int) ([]models.RetrievedDocument, error) {
	reqBody, err := json.Marshal(matchRequest{
		QueryEmbedding: embedding,
		MatchThreshold: threshold,
		MatchCount:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+matchDocumentsPath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("match_documents error (status %d): %s", resp.StatusCode, string(body))
	}

	var rows []matchRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	docs := make([]models.RetrievedDocument, 0, len(rows))
	for i, row := range rows {
		if row.Content == nil {
			return nil, fmt.Errorf("match row %d has no content field", i)
		}
		doc := models.RetrievedDocument{
			Content:    *row.Content,
			Similarity: row.Similarity,
		}
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("match row %d: %w", i, err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
