// Package openai embeds query text through any endpoint speaking the OpenAI
// embeddings protocol (OpenAI itself, Azure gateways, local servers).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/metrics"
)

// DefaultModel must match the model the philosophy and vedabase indexes were built with.
const DefaultModel = "text-embedding-3-small"

// Embedder turns one expanded, normalized query into a vector.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	provider   string
	logger     *zap.Logger
}

var (
	_ domain.Embedder      = (*Embedder)(nil)
	_ domain.HealthChecker = (*Embedder)(nil)
)

// Config is filled from the embedding section of the service config.
type Config struct {
	APIKey     string
	BaseURL    string // empty uses the public OpenAI endpoint
	Model      string
	Dimensions int    // 0 keeps the model's native size
	Provider   string // metrics label, defaults to "openai"
	Logger     *zap.Logger
}

func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(model),
		dimensions: cfg.Dimensions,
		provider:   provider,
		logger:     logger,
	}
}

// Embed sends a single-input embeddings request. Every failure wraps
// domain.ErrEmbeddingProviderError so callers can surface it as an upstream error.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, req)
	duration := time.Since(start)

	if err != nil {
		kind, msg := classify(err)
		e.fail(kind)
		e.logger.Warn("query embedding failed",
			zap.String("provider", e.provider),
			zap.String("model", string(e.model)),
			zap.String("kind", kind),
			zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed query via %s: %s: %w", e.provider, msg, domain.ErrEmbeddingProviderError)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		e.fail("empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("embed query via %s: no vector returned: %w", e.provider, domain.ErrEmbeddingProviderError)
	}

	model := string(e.model)
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck lists models, which costs no tokens.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("embedding provider %s unreachable: %w", e.provider, err)
	}
	return nil
}

func (e *Embedder) fail(kind string) {
	model := string(e.model)
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, model, kind).Inc()
}

// classify maps a client error to a metrics kind and a short message.
func classify(err error) (kind, msg string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", "deadline exceeded"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled", "request canceled"
	}

	status, reason := 0, ""
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status, reason = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		status, reason = reqErr.HTTPStatusCode, detail(reqErr.Body)
	default:
		return "transport", err.Error()
	}

	kind = "status"
	switch {
	case status == http.StatusTooManyRequests:
		kind = "rate_limited"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = "unauthorized"
	case status >= http.StatusInternalServerError:
		kind = "upstream"
	}
	if reason == "" {
		return kind, fmt.Sprintf("status %d", status)
	}
	return kind, fmt.Sprintf("status %d (%s)", status, reason)
}

// detail reads {"detail": "..."} bodies some gateways send instead of the
// OpenAI error envelope, falling back to the raw body.
func detail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return string(body)
}
