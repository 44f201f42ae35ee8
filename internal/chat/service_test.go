package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayud22/ayushi.dev/internal/models"
)

type fakeEmbedder struct {
	calls  int
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeSearcher struct {
	calls     int
	docs      []models.RetrievedDocument
	err       error
	threshold float64
	limit     int
}

func (f *fakeSearcher) MatchDocuments(_ context.Context, _ []float32, threshold float64, limit int) ([]models.RetrievedDocument, error) {
	f.calls++
	f.threshold = threshold
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type fakeCompleter struct {
	calls        int
	chunks       []string
	err          error
	systemPrompt string
	userMessage  string
}

func (f *fakeCompleter) StreamWithSystem(_ context.Context, systemPrompt, userMessage string, fn func(chunk []byte) error) error {
	f.calls++
	f.systemPrompt = systemPrompt
	f.userMessage = userMessage
	if f.err != nil {
		return f.err
	}
	for _, chunk := range f.chunks {
		if err := fn([]byte(chunk)); err != nil {
			return err
		}
	}
	return nil
}

func newTestService(e *fakeEmbedder, s *fakeSearcher, c *fakeCompleter) *Service {
	return NewService(e, s, c, Options{MatchThreshold: 0.7, MatchCount: 5}, nil)
}

func TestAskHappyPath(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	searcher := &fakeSearcher{docs: []models.RetrievedDocument{
		{Content: "Built an e-commerce platform with Next.js", Similarity: 0.81},
	}}
	completer := &fakeCompleter{chunks: []string{"You built ", "an e-commerce platform."}}

	svc := newTestService(embedder, searcher, completer)

	answer, err := svc.Answer(context.Background(), "What projects have you built?")
	require.NoError(t, err)
	assert.Equal(t, "You built an e-commerce platform.", answer)

	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, 0.7, searcher.threshold)
	assert.Equal(t, 5, searcher.limit)
	assert.Contains(t, completer.systemPrompt, "Built an e-commerce platform with Next.js")
	assert.Equal(t, "What projects have you built?", completer.userMessage)
}

func TestAskEmptyMessageSkipsUpstream(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	searcher := &fakeSearcher{}
	completer := &fakeCompleter{}
	svc := newTestService(embedder, searcher, completer)

	for _, message := range []string{"", "   ", "\n\t"} {
		err := svc.Ask(context.Background(), message, func([]byte) error { return nil })
		require.Error(t, err)
		assert.True(t, IsValidation(err), "expected validation error for %q", message)
	}

	assert.Zero(t, embedder.calls, "no upstream call on invalid input")
	assert.Zero(t, searcher.calls)
	assert.Zero(t, completer.calls)
}

func TestAskZeroDocumentsStillSucceeds(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	searcher := &fakeSearcher{docs: nil}
	completer := &fakeCompleter{chunks: []string{"I don't know."}}
	svc := newTestService(embedder, searcher, completer)

	answer, err := svc.Answer(context.Background(), "Anything?")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.", answer)
	// Empty context renders a prompt ending in the bare "Context: " marker.
	assert.Contains(t, completer.systemPrompt, "Context: ")
}

func TestAskUpstreamFailuresAbortPipeline(t *testing.T) {
	boom := errors.New("quota exceeded for embeddings")

	t.Run("embedding failure stops before search", func(t *testing.T) {
		embedder := &fakeEmbedder{err: boom}
		searcher := &fakeSearcher{}
		completer := &fakeCompleter{}
		svc := newTestService(embedder, searcher, completer)

		err := svc.Ask(context.Background(), "hello", func([]byte) error { return nil })
		require.Error(t, err)
		assert.True(t, IsUpstream(err))
		assert.Zero(t, searcher.calls)
		assert.Zero(t, completer.calls)
	})

	t.Run("search failure stops before completion", func(t *testing.T) {
		embedder := &fakeEmbedder{vector: []float32{0.1}}
		searcher := &fakeSearcher{err: boom}
		completer := &fakeCompleter{}
		svc := newTestService(embedder, searcher, completer)

		err := svc.Ask(context.Background(), "hello", func([]byte) error { return nil })
		require.Error(t, err)
		assert.True(t, IsUpstream(err))
		assert.Zero(t, completer.calls)
	})

	t.Run("completion failure surfaces as upstream", func(t *testing.T) {
		embedder := &fakeEmbedder{vector: []float32{0.1}}
		searcher := &fakeSearcher{}
		completer := &fakeCompleter{err: boom}
		svc := newTestService(embedder, searcher, completer)

		err := svc.Ask(context.Background(), "hello", func([]byte) error { return nil })
		require.Error(t, err)
		assert.True(t, IsUpstream(err))
	})
}

func TestAskChunkOrderPreserved(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	searcher := &fakeSearcher{}
	completer := &fakeCompleter{chunks: []string{"a", "b", "c", "d"}}
	svc := newTestService(embedder, searcher, completer)

	var got []string
	err := svc.Ask(context.Background(), "hi", func(chunk []byte) error {
		got = append(got, string(chunk))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}
