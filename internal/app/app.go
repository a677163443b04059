// Package app assembles the retrieval stack from configuration. Both the
// HTTP and the MCP binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/config"
	"github.com/kailas-cloud/vedarag/internal/db/badger"
	"github.com/kailas-cloud/vedarag/internal/db/memory"
	"github.com/kailas-cloud/vedarag/internal/db/sqldb"
	dbValkey "github.com/kailas-cloud/vedarag/internal/db/valkey"
	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/metrics"
	"github.com/kailas-cloud/vedarag/internal/ranking"
	"github.com/kailas-cloud/vedarag/internal/repository/corpus"
	"github.com/kailas-cloud/vedarag/internal/repository/embcache"
	"github.com/kailas-cloud/vedarag/internal/repository/vectorindex"
	openaiEmb "github.com/kailas-cloud/vedarag/internal/transport/openai"
	vertexEmb "github.com/kailas-cloud/vedarag/internal/transport/vertex"
	"github.com/kailas-cloud/vedarag/internal/usecase/catalog"
	embeddinguc "github.com/kailas-cloud/vedarag/internal/usecase/embedding"
	"github.com/kailas-cloud/vedarag/internal/usecase/health"
	"github.com/kailas-cloud/vedarag/internal/usecase/retrieval"
)

// App holds the wired services and the resources they own.
type App struct {
	Retrieval *retrieval.Service
	Catalog   *catalog.Service
	Health    *health.Service

	closers []func() error
	logger  *zap.Logger
}

// Build connects every backend named by cfg. On error, anything already
// opened is closed.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (_ *App, err error) {
	a := &App{logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	conn, err := sqldb.Open(ctx, sqldb.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifeSec) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, conn.Close)
	logger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	repo := corpus.New(conn)
	healthOpts := []health.Option{}

	index, indexPinger, err := a.buildIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if indexPinger != nil {
		healthOpts = append(healthOpts, health.WithVectorIndex(indexPinger))
	}

	cache, cachePinger, err := a.buildCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cachePinger != nil {
		healthOpts = append(healthOpts, health.WithCache(cachePinger))
	}

	embedder, err := a.buildEmbedder(ctx, cfg, cache)
	if err != nil {
		return nil, err
	}
	healthOpts = append(healthOpts, health.WithEmbedding(embedder))

	a.Retrieval = retrieval.New(embedder, index, repo,
		retrieval.WithRanker(ranking.New(cfg.Retrieval.VectorWeight, cfg.Retrieval.ScoreThreshold)),
		retrieval.WithMaxK(cfg.VectorIndex.MaxK),
		retrieval.WithResolveConcurrency(cfg.Retrieval.ResolveConcurrency),
		retrieval.WithLogger(logger),
	)
	a.Catalog = catalog.New(repo)
	a.Health = health.New(sqldb.Pinger{DB: conn}, healthOpts...)

	logger.Info("Retrieval stack ready",
		zap.String("vector_index", cfg.VectorIndex.Driver),
		zap.String("cache", cfg.Cache.Driver),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
	)
	return a, nil
}

// Close releases every backend in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

func (a *App) buildIndex(ctx context.Context, cfg config.Config) (retrieval.VectorIndex, health.Pinger, error) {
	vi := cfg.VectorIndex
	switch vi.Driver {
	case "valkey":
		store, err := a.openValkey(ctx, vi.Valkey, cfg.Database.ReadinessTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("vector index: %w", err)
		}
		return vectorindex.NewValkey(store, vi.Valkey.IndexName, vi.Valkey.KeyPrefix), store, nil
	case "pgvector":
		dsn := vi.Pgvector.DSN
		if dsn == "" {
			dsn = cfg.Database.DSN
		}
		conn, err := sqldb.Open(ctx, sqldb.Options{Driver: sqldb.DriverPostgres, DSN: dsn})
		if err != nil {
			return nil, nil, fmt.Errorf("vector index: %w", err)
		}
		a.closers = append(a.closers, conn.Close)
		idx, err := vectorindex.NewPgvector(conn, vi.Pgvector.Table)
		if err != nil {
			return nil, nil, fmt.Errorf("vector index: %w", err)
		}
		return idx, sqldb.Pinger{DB: conn}, nil
	case "vertex":
		idx, err := vectorindex.NewVertex(ctx, vectorindex.VertexConfig{
			ProjectID:            vi.Vertex.ProjectID,
			Location:             vi.Vertex.Location,
			IndexEndpointID:      vi.Vertex.IndexEndpointID,
			DeployedIndexID:      vi.Vertex.DeployedIndexID,
			PublicEndpointDomain: vi.Vertex.PublicEndpointDomain,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("vector index: %w", err)
		}
		a.closers = append(a.closers, idx.Close)
		return idx, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown vector index driver %q", vi.Driver)
	}
}

// buildCache returns a nil cache for the "none" driver.
func (a *App) buildCache(ctx context.Context, cfg config.Config) (*embcache.Cache, health.Pinger, error) {
	c := cfg.Cache
	opts := []embcache.Option{
		embcache.WithTTL(time.Duration(c.TTLHours) * time.Hour),
		embcache.WithMetrics(metrics.EmbeddingCacheTotal),
	}
	switch c.Driver {
	case "none":
		return nil, nil, nil
	case "memory":
		store := memory.New(c.Size, time.Duration(c.TTLHours)*time.Hour)
		return embcache.NewCache(store, c.Driver, a.logger, opts...), store, nil
	case "badger":
		store, err := badger.Open(c.Path, a.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("embedding cache: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return embcache.NewCache(store, c.Driver, a.logger, opts...), store, nil
	case "valkey":
		store, err := a.openValkey(ctx, c.Valkey, cfg.Database.ReadinessTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("embedding cache: %w", err)
		}
		return embcache.NewCache(store, c.Driver, a.logger, opts...), store, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", c.Driver)
	}
}

// embedder is the provider chain as seen by retrieval and health.
type embedder interface {
	retrieval.Embedder
	health.EmbeddingChecker
}

// buildEmbedder assembles the decorator chain: provider -> cached -> instrumented.
func (a *App) buildEmbedder(ctx context.Context, cfg config.Config, cache *embcache.Cache) (embedder, error) {
	e := cfg.Embedding

	var base domain.Embedder
	switch e.Provider {
	case "openai":
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     e.APIKey,
			BaseURL:    e.BaseURL,
			Model:      e.Model,
			Dimensions: e.Dimensions,
			Provider:   e.Provider,
			Logger:     a.logger,
		})
	case "vertex":
		v, err := vertexEmb.NewEmbedder(ctx, &vertexEmb.Config{
			ProjectID: e.ProjectID,
			Location:  e.Location,
			Model:     e.Model,
			Logger:    a.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding provider: %w", err)
		}
		a.closers = append(a.closers, v.Close)
		base = v
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", e.Provider)
	}

	var chain domain.Embedder = base
	if cache != nil {
		chain = embcache.New(base, cache)
	}
	return embeddinguc.NewInstrumentedEmbedder(chain, e.Provider, e.Model, a.logger), nil
}

func (a *App) openValkey(ctx context.Context, vc config.ValkeyConfig, readinessSec int) (*dbValkey.Store, error) {
	store, err := dbValkey.NewStore(dbValkey.Config{Addrs: vc.Addrs, Password: vc.Password})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { store.Close(); return nil })

	if err := store.WaitForReady(ctx, time.Duration(readinessSec)*time.Second); err != nil {
		return nil, errors.Join(errors.New("valkey not ready"), err)
	}
	return store, nil
}
