package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/questforge/questforge/internal/metrics"
)

// OllamaService implements LLMService against a self-hosted Ollama
// instance using its native API client.
type OllamaService struct {
	client    *api.Client
	modelName string
	logger    *slog.Logger
}

var _ LLMService = (*OllamaService)(nil)

// NewOllamaService creates an Ollama-backed LLM service. baseURL is the
// server root, e.g. http://localhost:11434.
func NewOllamaService(baseURL string, modelName string, logger *slog.Logger) (*OllamaService, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL %q: %w", baseURL, err)
	}

	httpClient := &http.Client{Timeout: 120 * time.Second}
	return &OllamaService{
		client:    api.NewClient(parsed, httpClient),
		modelName: modelName,
		logger:    logger,
	}, nil
}

// InitModel checks that the model is present locally and pulls it when
// it is not.
func (s *OllamaService) InitModel(ctx context.Context, modelName string) error {
	if err := s.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}

	list, err := s.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ollama models: %w", err)
	}
	for _, m := range list.Models {
		if m.Name == modelName || strings.TrimSuffix(m.Name, ":latest") == modelName {
			s.logger.Info("Model already available", "model", modelName)
			return nil
		}
	}

	s.logger.Info("Model not found, pulling it", "model", modelName)
	req := &api.PullRequest{Model: modelName}
	if err := s.client.Pull(ctx, req, func(resp api.ProgressResponse) error {
		return nil
	}); err != nil {
		return fmt.Errorf("failed to pull model %q: %w", modelName, err)
	}
	s.logger.Info("Model pulled successfully", "model", modelName)
	return nil
}

// Complete generates text for a single prompt via /api/generate.
func (s *OllamaService) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	stream := false
	req := &api.GenerateRequest{
		Model:  s.modelName,
		Prompt: prompt,
		Stream: &stream,
	}

	var sb strings.Builder
	err := s.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})

	metrics.LLMRequestDuration.WithLabelValues("ollama").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("ollama", "error").Inc()
		s.logger.Error("Ollama generate request failed", "error", err, "model", s.modelName)
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	metrics.LLMRequestsTotal.WithLabelValues("ollama", "success").Inc()

	return sb.String(), nil
}
