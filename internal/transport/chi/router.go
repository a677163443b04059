package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/metrics"
)

// RouterOptions configures the HTTP middleware chain.
type RouterOptions struct {
	APIKeys        []string
	AllowedOrigins []string
	CORSMaxAge     time.Duration
	Logger         *zap.Logger
}

// NewRouter mounts the API routes behind recovery, request id, logging,
// CORS, authentication and metrics middleware.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(log))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(CORSMiddleware(opts.AllowedOrigins, opts.CORSMaxAge))
	}
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Post("/query", s.Query)
	r.Get("/traditions", s.ListTraditions)
	r.Get("/questions", s.ListQuestions)
	r.Get("/vedabase-books", s.ListBooks)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeInvalidRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeInvalidRequest, "method not allowed")
	})

	return r
}
