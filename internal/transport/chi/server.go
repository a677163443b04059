// Package chi serves the retrieval and catalog API over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
	"github.com/kailas-cloud/vedarag/internal/logger"
	healthuc "github.com/kailas-cloud/vedarag/internal/usecase/health"
	"github.com/kailas-cloud/vedarag/internal/usecase/retrieval"
)

// maxBodyBytes caps the POST /query body.
const maxBodyBytes = 1 << 20

// EmbeddingTokensHeader reports provider tokens spent on the request.
const EmbeddingTokensHeader = "X-Embedding-Tokens"

// Retriever runs a retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, q query.Query) (retrieval.Response, error)
}

// Catalog lists corpus contents.
type Catalog interface {
	Traditions(ctx context.Context) ([]string, error)
	Questions(ctx context.Context, tradition string) ([]corpus.Question, error)
	Books(ctx context.Context) ([]corpus.Book, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	retrieval     Retriever
	catalog       Catalog
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(retriever Retriever, catalog Catalog, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		retrieval: retriever,
		catalog:   catalog,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeInvalidRequest),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrVectorSearchFailed, http.StatusBadGateway, ErrorResponseCodeVectorSearchFailed),
	}
	return s
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := query.New(query.Params{
		Text:           req.Query,
		Source:         req.Source,
		BookCode:       req.BookFilter,
		Tradition:      req.TraditionFilter,
		QuestionNumber: req.QuestionFilter,
		TopK:           req.TopK,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidRequest, invalidMessage(err))
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.retrieval.Retrieve(ctx, q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResult, len(resp.Results))
	for i, res := range resp.Results {
		items[i] = resultToDTO(res)
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, QueryResponse{
		Query:   resp.Query,
		Count:   len(items),
		Results: items,
	})
}

// ListTraditions handles GET /traditions.
func (s *Server) ListTraditions(w http.ResponseWriter, r *http.Request) {
	names, err := s.catalog.Traditions(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TraditionsResponse{Traditions: names})
}

// ListQuestions handles GET /questions.
func (s *Server) ListQuestions(w http.ResponseWriter, r *http.Request) {
	var params QuestionsParams
	if err := runtime.BindQueryParameter("form", true, false, "tradition", r.URL.Query(), &params.Tradition); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeInvalidRequest, "Invalid format for parameter tradition")
		return
	}

	tradition := ""
	if params.Tradition != nil {
		tradition = *params.Tradition
	}

	qs, err := s.catalog.Questions(r.Context(), tradition)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, QuestionsResponse{Questions: questionsToDTO(qs)})
}

// ListBooks handles GET /vedabase-books.
func (s *Server) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.catalog.Books(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BooksResponse{Books: booksToDTO(books)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used && !usage.CacheHit {
		w.Header().Set(EmbeddingTokensHeader, strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// invalidMessage strips the sentinel suffix from a validation error.
func invalidMessage(err error) string {
	msg := err.Error()
	suffix := ": " + domain.ErrInvalidRequest.Error()
	if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
		return msg[:len(msg)-len(suffix)]
	}
	return msg
}

// safeDomainMessage never leaks wrapped upstream details to the client.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorSearchFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
