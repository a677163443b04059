// Command vedarag-mcp serves corpus retrieval as MCP tools over stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/app"
	"github.com/kailas-cloud/vedarag/internal/config"
	logpkg "github.com/kailas-cloud/vedarag/internal/logger"
	"github.com/kailas-cloud/vedarag/internal/metrics"
	"github.com/kailas-cloud/vedarag/internal/transport/mcp"
	"github.com/kailas-cloud/vedarag/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vedarag-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// stdout carries MCP frames.
	logger, err := logpkg.NewStderrLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ReadinessTimeout)*time.Second)
	a, err := app.Build(ctx, cfg, logger)
	cancel()
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	defer a.Close()

	logger.Info("Starting MCP server", zap.String("version", version.Version))
	return mcp.NewServer(a.Retrieval, a.Catalog, version.Version, logger).Serve(context.Background())
}
