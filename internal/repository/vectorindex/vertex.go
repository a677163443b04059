package vectorindex

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"

	"github.com/kailas-cloud/vedarag/internal/domain/filter"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
)

// VertexConfig identifies a deployed Vertex AI Vector Search index.
type VertexConfig struct {
	ProjectID            string
	Location             string
	IndexEndpointID      string
	DeployedIndexID      string
	PublicEndpointDomain string // e.g. "123.us-central1-456.vdb.vertexai.goog"
}

type findNeighborsFunc func(ctx context.Context, req *aiplatformpb.FindNeighborsRequest) (*aiplatformpb.FindNeighborsResponse, error)

// Vertex queries Vertex AI Vector Search. Metadata is rebuilt from the
// datapoint restricts, one value per namespace.
type Vertex struct {
	cfg           VertexConfig
	indexEndpoint string
	find          findNeighborsFunc
	close         func() error
}

// NewVertex dials the match service for cfg.
func NewVertex(ctx context.Context, cfg VertexConfig) (*Vertex, error) {
	var endpoint string
	if cfg.PublicEndpointDomain != "" {
		endpoint = fmt.Sprintf("%s:443", cfg.PublicEndpointDomain)
	} else {
		endpoint = fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.Location)
	}

	mc, err := aiplatform.NewMatchClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create match client: %w", err)
	}

	v := newVertex(cfg, func(ctx context.Context, req *aiplatformpb.FindNeighborsRequest) (*aiplatformpb.FindNeighborsResponse, error) {
		return mc.FindNeighbors(ctx, req)
	})
	v.close = mc.Close
	return v, nil
}

func newVertex(cfg VertexConfig, find findNeighborsFunc) *Vertex {
	return &Vertex{
		cfg: cfg,
		indexEndpoint: fmt.Sprintf("projects/%s/locations/%s/indexEndpoints/%s",
			cfg.ProjectID, cfg.Location, cfg.IndexEndpointID),
		find: find,
	}
}

// Close closes the match client.
func (v *Vertex) Close() error {
	if v.close != nil {
		return v.close()
	}
	return nil
}

// Query returns up to k nearest matches satisfying f.
func (v *Vertex) Query(ctx context.Context, vector []float32, k int, f filter.Expression) ([]match.Match, error) {
	dp := &aiplatformpb.IndexDatapoint{FeatureVector: vector}
	for _, c := range f.Must() {
		dp.Restricts = append(dp.Restricts, &aiplatformpb.IndexDatapoint_Restriction{
			Namespace: c.Key(),
			AllowList: []string{c.Value()},
		})
	}

	resp, err := v.find(ctx, &aiplatformpb.FindNeighborsRequest{
		IndexEndpoint:       v.indexEndpoint,
		DeployedIndexId:     v.cfg.DeployedIndexID,
		ReturnFullDatapoint: true,
		Queries: []*aiplatformpb.FindNeighborsRequest_Query{
			{Datapoint: dp, NeighborCount: int32(k)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("find neighbors: %w", err)
	}
	if len(resp.GetNearestNeighbors()) == 0 {
		return nil, nil
	}

	neighbors := resp.GetNearestNeighbors()[0].GetNeighbors()
	out := make([]match.Match, 0, len(neighbors))
	for _, n := range neighbors {
		d := n.GetDatapoint()
		if d == nil {
			continue
		}
		out = append(out, match.Match{
			ID:       d.GetDatapointId(),
			Score:    float64(1 - n.GetDistance()),
			Metadata: restrictsToMetadata(d),
		})
	}
	sortMatches(out)
	return out, nil
}

func restrictsToMetadata(d *aiplatformpb.IndexDatapoint) map[string]any {
	meta := make(map[string]any, len(d.GetRestricts())+len(d.GetNumericRestricts()))
	for _, r := range d.GetRestricts() {
		if len(r.GetAllowList()) > 0 {
			meta[r.GetNamespace()] = r.GetAllowList()[0]
		}
	}
	for _, r := range d.GetNumericRestricts() {
		switch val := r.GetValue().(type) {
		case *aiplatformpb.IndexDatapoint_NumericRestriction_ValueInt:
			meta[r.GetNamespace()] = val.ValueInt
		case *aiplatformpb.IndexDatapoint_NumericRestriction_ValueFloat:
			meta[r.GetNamespace()] = float64(val.ValueFloat)
		case *aiplatformpb.IndexDatapoint_NumericRestriction_ValueDouble:
			meta[r.GetNamespace()] = val.ValueDouble
		}
	}
	return meta
}
