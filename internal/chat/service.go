package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aayud22/ayushi.dev/internal/metrics"
	"github.com/aayud22/ayushi.dev/internal/models"
	"github.com/aayud22/ayushi.dev/internal/prompt"
	"github.com/aayud22/ayushi.dev/internal/search"
)

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer streams a chat completion for a system prompt and user message.
type Completer interface {
	StreamWithSystem(ctx context.Context, systemPrompt, userMessage string, fn func(chunk []byte) error) error
}

// Options configures the retrieval step.
type Options struct {
	// MatchThreshold is the minimum similarity for a document to be used
	// as context.
	MatchThreshold float64

	// MatchCount caps the number of retrieved documents.
	MatchCount int

	// UpstreamTimeout bounds each upstream call; zero means no deadline.
	UpstreamTimeout time.Duration
}

// Service sequences the chat pipeline: embed the question, retrieve
// similar documents, assemble the system prompt, stream the completion.
// Strictly sequential, no retries: a single upstream failure fails the
// whole request.
type Service struct {
	embedder Embedder
	searcher search.Searcher
	model    Completer
	opts     Options
	metrics  *metrics.Collector
}

// NewService creates a chat service.
func NewService(embedder Embedder, searcher search.Searcher, model Completer, opts Options, mc *metrics.Collector) *Service {
	if opts.MatchThreshold == 0 {
		opts.MatchThreshold = 0.7
	}
	if opts.MatchCount == 0 {
		opts.MatchCount = 5
	}
	return &Service{
		embedder: embedder,
		searcher: searcher,
		model:    model,
		opts:     opts,
		metrics:  mc,
	}
}

// Ask runs the pipeline for one user message and streams the answer
// through fn in arrival order. Validation failures are *ValidationError
// and happen before any upstream call; upstream failures are
// *UpstreamError.
func (s *Service) Ask(ctx context.Context, message string, fn func(chunk []byte) error) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	start := time.Now()

	embedding, err := s.embed(ctx, message)
	if err != nil {
		return &UpstreamError{Stage: "embedding", Err: err}
	}

	docs, err := s.match(ctx, embedding)
	if err != nil {
		return &UpstreamError{Stage: "search", Err: err}
	}
	// Zero matches is fine: the prompt just carries an empty context and
	// the model declines on its own.
	slog.Debug("retrieved context documents", "count", len(docs))

	systemPrompt := prompt.ForDocuments(docs)

	if err := s.stream(ctx, systemPrompt, message, fn); err != nil {
		return &UpstreamError{Stage: "completion", Err: err}
	}

	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpChatRequest, time.Since(start))
	}
	return nil
}

// Answer is the buffering variant of Ask.
func (s *Service) Answer(ctx context.Context, message string) (string, error) {
	var sb strings.Builder
	if err := s.Ask(ctx, message, func(chunk []byte) error {
		sb.Write(chunk)
		return nil
	}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (s *Service) embed(ctx context.Context, message string) ([]float32, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()
	return s.embedder.Embed(ctx, message)
}

func (s *Service) match(ctx context.Context, embedding []float32) ([]models.RetrievedDocument, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	start := time.Now()
	docs, err := s.searcher.MatchDocuments(ctx, embedding, s.opts.MatchThreshold, s.opts.MatchCount)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordTiming(metrics.OpDocSearch, time.Since(start))
	}
	return docs, nil
}

func (s *Service) stream(ctx context.Context, systemPrompt, message string, fn func(chunk []byte) error) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()
	return s.model.StreamWithSystem(ctx, systemPrompt, message, fn)
}

// withDeadline applies the configured upstream timeout, if any.
func (s *Service) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.UpstreamTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.UpstreamTimeout)
}
