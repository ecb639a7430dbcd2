package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/questforge/questforge/internal/metrics"
)

const defaultOpenAITemperature = 0.8

// OpenAIService implements LLMService against any OpenAI-compatible
// chat-completions endpoint.
type OpenAIService struct {
	client    *openai.Client
	modelName string
	logger    *slog.Logger
}

var _ LLMService = (*OpenAIService)(nil)

// NewOpenAIService creates an OpenAI-compatible LLM service. baseURL is
// optional; when set it overrides the default API endpoint (for
// OpenRouter and similar gateways).
func NewOpenAIService(apiKey, baseURL, modelName string, logger *slog.Logger) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIService{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
		logger:    logger,
	}
}

// InitModel is a no-op; hosted endpoints need no explicit model setup.
func (s *OpenAIService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

// Complete generates text for a single prompt.
func (s *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.modelName,
		Temperature: defaultOpenAITemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})

	metrics.LLMRequestDuration.WithLabelValues("openai").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("openai", "error").Inc()
		s.logger.Error("OpenAI request failed", "error", err, "model", s.modelName)
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues("openai", "error").Inc()
		return "", fmt.Errorf("%w: empty choices", ErrMalformedResponse)
	}
	metrics.LLMRequestsTotal.WithLabelValues("openai", "success").Inc()

	return resp.Choices[0].Message.Content, nil
}
