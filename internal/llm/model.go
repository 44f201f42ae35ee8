package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/aayud22/ayushi.dev/internal/config"
	"github.com/aayud22/ayushi.dev/internal/metrics"
)

// ErrFatalAPI marks provider errors that will not recover on their own
// (bad credentials, exhausted quota). Callers can stop early instead of
// hammering the provider.
var ErrFatalAPI = errors.New("fatal API error")

// Model wraps a langchaingo LLM for chat completion.
type Model struct {
	llm         llms.Model
	modelName   string
	temperature float64
	metrics     *metrics.Collector
}

// NewModel creates an LLM model based on configuration.
func NewModel(ctx context.Context, cfg config.Config, mc *metrics.Collector) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx)
		if awsErr != nil {
			return nil, fmt.Errorf("load aws config: %w", awsErr)
		}
		client := bedrockruntime.NewFromConfig(awsCfg)
		model, err = bedrock.New(
			bedrock.WithClient(client),
			bedrock.WithModel(cfg.BedrockModelID),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:         model,
		modelName:   cfg.LLMModel,
		temperature: cfg.LLMTemperature,
		metrics:     mc,
	}, nil
}

// NewModelFromLLM wraps an existing langchaingo model (used in tests).
func NewModelFromLLM(model llms.Model, name string, temperature float64, mc *metrics.Collector) *Model {
	return &Model{llm: model, modelName: name, temperature: temperature, metrics: mc}
}

// Model returns the completion model name.
func (m *Model) Model() string {
	return m.modelName
}

// GenerateWithSystem generates a complete response for a system prompt and
// user message.
func (m *Model) GenerateWithSystem(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userMessage),
	}

	response, err := m.llm.GenerateContent(ctx, messages, llms.WithTemperature(m.temperature))
	if err != nil {
		return "", wrapFatalError(fmt.Errorf("generate: %w", err))
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return response.Choices[0].Content, nil
}

// StreamWithSystem streams a response chunk by chunk through fn. Chunks are
// delivered in order; returning an error from fn aborts the stream.
func (m *Model) StreamWithSystem(ctx context.Context, systemPrompt, userMessage string, fn func(chunk []byte) error) error {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userMessage),
	}

	var chunks, bytes int64
	start := time.Now()

	_, err := m.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(m.temperature),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			chunks++
			bytes += int64(len(chunk))
			return fn(chunk)
		}),
	)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("completion stream failed", "model", m.modelName, "duration_ms", duration.Milliseconds(), "error", err)
		return wrapFatalError(fmt.Errorf("stream: %w", err))
	}

	if m.metrics != nil {
		m.metrics.RecordStream(metrics.OpLLMStream, duration, chunks, bytes)
	}
	slog.Debug("completion stream done", "model", m.modelName, "chunks", chunks, "duration_ms", duration.Milliseconds())
	return nil
}

// fatalPatterns are substrings of provider errors that indicate the request
// will keep failing until the operator intervenes.
var fatalPatterns = []string{
	"credit balance",
	"rate limit",
	"quota",
	"billing",
	"api key",
	"authentication",
	"unauthorized",
	"401",
	"403",
}

// isFatalAPIError reports whether err is a non-recoverable provider error.
func isFatalAPIError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range fatalPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// wrapFatalError marks fatal provider errors with ErrFatalAPI so callers
// can test with errors.Is. Non-fatal errors pass through unchanged.
func wrapFatalError(err error) error {
	if err == nil {
		return nil
	}
	if isFatalAPIError(err) {
		return fmt.Errorf("%w: %w", ErrFatalAPI, err)
	}
	return err
}
