package models

import "fmt"

// RetrievedDocument is one similarity-search hit. Instances are
// request-scoped: they live for a single chat turn and are never cached.
// Ranking and tie-breaking belong to the search backend; Similarity is only
// used upstream for threshold filtering.
type RetrievedDocument struct {
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// Validate rejects malformed search hits at the API boundary rather than
// letting empty documents flow into the prompt.
func (d RetrievedDocument) Validate() error {
	if d.Content == "" {
		return fmt.Errorf("retrieved document has no content")
	}
	return nil
}

// PortfolioEntry is one item of ingestable portfolio content (a project,
// a skill, a review). Entries are serialized and embedded as single
// documents by the ingest pipeline.
type PortfolioEntry struct {
	Type        string   `yaml:"type" json:"type"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	TechStack   []string `yaml:"tech_stack,omitempty" json:"tech_stack,omitempty"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
}
