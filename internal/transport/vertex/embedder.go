// Package vertex provides an embedding provider backed by a Vertex AI
// text-embedding model.
package vertex

import (
	"context"
	"fmt"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/metrics"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "text-embedding-005"

// taskType marks the text as a search query, not a document.
const taskType = "RETRIEVAL_QUERY"

// Config holds the Vertex AI model settings.
type Config struct {
	ProjectID string
	Location  string
	Model     string
	Logger    *zap.Logger
}

type predictFunc func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error)

// Embedder calls the Vertex AI prediction endpoint of an embedding model.
type Embedder struct {
	endpoint string
	model    string
	predict  predictFunc
	close    func() error
	logger   *zap.Logger
}

var _ domain.Embedder = (*Embedder)(nil)

// NewEmbedder dials the regional prediction service.
func NewEmbedder(ctx context.Context, cfg *Config) (*Embedder, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project id is required for vertex embeddings")
	}
	if cfg.Location == "" {
		return nil, fmt.Errorf("location is required for vertex embeddings")
	}

	client, err := aiplatform.NewPredictionClient(ctx,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.Location)))
	if err != nil {
		return nil, fmt.Errorf("create vertex prediction client: %w", err)
	}

	e := newEmbedder(cfg, func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		return client.Predict(ctx, req)
	})
	e.close = client.Close
	return e, nil
}

func newEmbedder(cfg *Config, predict predictFunc) *Embedder {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Embedder{
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
			cfg.ProjectID, cfg.Location, model),
		model:   model,
		predict: predict,
		logger:  logger,
	}
}

// Close closes the prediction client.
func (e *Embedder) Close() error {
	if e.close != nil {
		return e.close()
	}
	return nil
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	instance, err := structpb.NewStruct(map[string]any{
		"content":   text,
		"task_type": taskType,
	})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("build instance: %w", err)
	}

	start := time.Now()
	resp, err := e.predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  e.endpoint,
		Instances: []*structpb.Value{structpb.NewStructValue(instance)},
	})
	duration := time.Since(start)

	if err != nil {
		e.fail("api_error")
		return domain.EmbeddingResult{}, fmt.Errorf("vertex prediction failed: %v: %w", err, domain.ErrEmbeddingProviderError)
	}

	vec, tokens, err := parsePrediction(resp)
	if err != nil {
		e.fail("bad_response")
		return domain.EmbeddingResult{}, fmt.Errorf("%v: %w", err, domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("vertex", e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues("vertex", e.model).Observe(duration.Seconds())
	if tokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues("vertex", e.model, "total").Add(float64(tokens))
	}

	return domain.EmbeddingResult{Embedding: vec, PromptTokens: tokens, TotalTokens: tokens}, nil
}

func (e *Embedder) fail(kind string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues("vertex", e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues("vertex", e.model, kind).Inc()
}

// parsePrediction reads predictions[0].embeddings.{values,statistics.token_count}.
func parsePrediction(resp *aiplatformpb.PredictResponse) ([]float32, int, error) {
	if resp == nil || len(resp.GetPredictions()) == 0 {
		return nil, 0, fmt.Errorf("no predictions returned")
	}
	pred := resp.GetPredictions()[0].GetStructValue()
	if pred == nil {
		return nil, 0, fmt.Errorf("unexpected prediction format")
	}
	emb := pred.GetFields()["embeddings"].GetStructValue()
	if emb == nil {
		return nil, 0, fmt.Errorf("no embeddings field in prediction")
	}
	values := emb.GetFields()["values"].GetListValue()
	if values == nil || len(values.GetValues()) == 0 {
		return nil, 0, fmt.Errorf("no values field in embeddings")
	}

	vec := make([]float32, len(values.GetValues()))
	for i, v := range values.GetValues() {
		vec[i] = float32(v.GetNumberValue())
	}

	var tokens int
	if stats := emb.GetFields()["statistics"].GetStructValue(); stats != nil {
		tokens = int(stats.GetFields()["token_count"].GetNumberValue())
	}
	return vec, tokens, nil
}
