// Package assist wraps the generative text service behind a small
// generate-or-fallback interface used by the chat widget and the admin
// content helper.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	// ErrEmptyPrompt indicates the caller supplied no prompt text.
	ErrEmptyPrompt = errors.New("assist: prompt required")
	// ErrEmptyCompletion indicates the upstream returned no usable text.
	ErrEmptyCompletion = errors.New("assist: empty completion")

	noOpLogger = zap.NewNop()
)

// TextGenerator produces a completion for a prompt. The production
// implementation talks to the Gemini API.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ServiceConfig describes the dependencies for the assist service.
type ServiceConfig struct {
	Generator TextGenerator
	Fallback  string
	Logger    *zap.Logger
}

// Service answers prompts, degrading to the configured fallback text on
// any upstream failure. No retries.
type Service struct {
	generator TextGenerator
	fallback  string
	logger    *zap.Logger
}

// NewService constructs the assist service. The generator is optional;
// without one every prompt receives the fallback.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		generator: cfg.Generator,
		fallback:  cfg.Fallback,
		logger:    logger,
	}
}

// Generate returns the upstream completion for the prompt.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "", ErrEmptyPrompt
	}
	if s.generator == nil {
		return "", ErrEmptyCompletion
	}
	text, err := s.generator.GenerateText(ctx, trimmed)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// GenerateOrFallback returns the completion, or the configured fallback
// text when generation fails for any reason other than an empty prompt.
func (s *Service) GenerateOrFallback(ctx context.Context, prompt string) (string, error) {
	text, err := s.Generate(ctx, prompt)
	if errors.Is(err, ErrEmptyPrompt) {
		return "", err
	}
	if err != nil {
		s.logger.Warn("text generation failed, serving fallback", zap.Error(err))
		return s.fallback, nil
	}
	return text, nil
}

// GeminiGenerator is the production TextGenerator over the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator constructs a Gemini-backed generator. The API key
// comes from runtime configuration, never from source.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("assist: api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("assist: model name is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("assist: create client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// GenerateText requests a single completion for the prompt.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("assist: generate content: %w", err)
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
