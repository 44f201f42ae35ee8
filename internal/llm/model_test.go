package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestIsFatalAPIError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("connection reset"), false},
		{"credit balance", errors.New("insufficient credit balance"), true},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"quota exceeded", errors.New("quota exceeded for model"), true},
		{"billing issue", errors.New("billing account inactive"), true},
		{"invalid api key", errors.New("invalid api key"), true},
		{"authentication failed", errors.New("authentication failed"), true},
		{"401 status", errors.New("HTTP 401: not allowed"), true},
		{"403 status", errors.New("HTTP 403: forbidden"), true},
		{"wrapped error", fmt.Errorf("stream: %w", errors.New("credit balance too low")), true},
		{"404 not fatal", errors.New("HTTP 404: not found"), false},
		{"timeout not fatal", errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, isFatalAPIError(tt.err))
		})
	}
}

func TestWrapFatalError(t *testing.T) {
	t.Run("wraps fatal error", func(t *testing.T) {
		err := errors.New("invalid api key provided")
		assert.ErrorIs(t, wrapFatalError(err), ErrFatalAPI)
	})

	t.Run("passes through non-fatal error", func(t *testing.T) {
		err := errors.New("network timeout")
		result := wrapFatalError(err)
		assert.NotErrorIs(t, result, ErrFatalAPI)
		assert.Equal(t, err, result)
	})

	t.Run("nil error", func(t *testing.T) {
		assert.NoError(t, wrapFatalError(nil))
	})
}

// scriptedModel emits a fixed chunk sequence through the streaming func.
type scriptedModel struct {
	chunks []string
	err    error
}

func (m *scriptedModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}

	var full string
	for _, chunk := range m.chunks {
		full += chunk
		if opts.StreamingFunc != nil {
			if err := opts.StreamingFunc(ctx, []byte(chunk)); err != nil {
				return nil, err
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: full}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, nil, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestStreamWithSystemOrderedChunks(t *testing.T) {
	model := NewModelFromLLM(&scriptedModel{chunks: []string{"You built ", "an e-commerce platform."}}, "test", 0.7, nil)

	var got []string
	err := model.StreamWithSystem(context.Background(), "system", "question", func(chunk []byte) error {
		got = append(got, string(chunk))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"You built ", "an e-commerce platform."}, got)
}

func TestStreamWithSystemCallbackAborts(t *testing.T) {
	model := NewModelFromLLM(&scriptedModel{chunks: []string{"a", "b", "c"}}, "test", 0.7, nil)

	abort := errors.New("stop")
	var seen int
	err := model.StreamWithSystem(context.Background(), "system", "question", func(chunk []byte) error {
		seen++
		if seen == 2 {
			return abort
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 2, seen, "no chunks delivered after the callback aborts")
}

func TestGenerateWithSystem(t *testing.T) {
	model := NewModelFromLLM(&scriptedModel{chunks: []string{"full answer"}}, "test", 0.7, nil)

	out, err := model.GenerateWithSystem(context.Background(), "system", "question")
	require.NoError(t, err)
	assert.Equal(t, "full answer", out)
}
