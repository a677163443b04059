package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
	"github.com/kailas-cloud/vedarag/internal/usecase/retrieval"
)

// ServerName is the MCP server name
const ServerName = "vedarag"

// Retriever runs a retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, q query.Query) (retrieval.Response, error)
}

// Catalog lists corpus contents.
type Catalog interface {
	Traditions(ctx context.Context) ([]string, error)
	Books(ctx context.Context) ([]corpus.Book, error)
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	retrieval Retriever
	catalog   Catalog
	logger    *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(retriever Retriever, catalog Catalog, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		mcp:       server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false)),
		retrieval: retriever,
		catalog:   catalog,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Serve runs the MCP server on stdio and blocks until the client disconnects
func (s *Server) Serve(_ context.Context) error {
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("serve stdio: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchCorpusTool(), s.handleSearchCorpus)
	s.mcp.AddTool(listTraditionsTool(), s.handleListTraditions)
	s.mcp.AddTool(listBooksTool(), s.handleListBooks)
}
