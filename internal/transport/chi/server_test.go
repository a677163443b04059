package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
	"github.com/kailas-cloud/vedarag/internal/domain/result"
	healthuc "github.com/kailas-cloud/vedarag/internal/usecase/health"
	"github.com/kailas-cloud/vedarag/internal/usecase/retrieval"
)

// --- Mocks ---

type mockRetriever struct {
	fn    func(ctx context.Context, q query.Query) (retrieval.Response, error)
	calls int
	last  query.Query
}

func (m *mockRetriever) Retrieve(ctx context.Context, q query.Query) (retrieval.Response, error) {
	m.calls++
	m.last = q
	if m.fn != nil {
		return m.fn(ctx, q)
	}
	return retrieval.Response{Query: q.Text()}, nil
}

type mockCatalog struct {
	traditions    []string
	questions     []corpus.Question
	books         []corpus.Book
	err           error
	lastTradition string
}

func (m *mockCatalog) Traditions(_ context.Context) ([]string, error) { return m.traditions, m.err }

func (m *mockCatalog) Questions(_ context.Context, tradition string) ([]corpus.Question, error) {
	m.lastTradition = tradition
	return m.questions, m.err
}

func (m *mockCatalog) Books(_ context.Context) ([]corpus.Book, error) { return m.books, m.err }

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- Helpers ---

type testEnv struct {
	retriever *mockRetriever
	catalog   *mockCatalog
	health    *mockHealth
	handler   http.Handler
}

func newTestEnv(opts RouterOptions) *testEnv {
	env := &testEnv{
		retriever: &mockRetriever{},
		catalog:   &mockCatalog{},
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}},
	}
	env.handler = NewRouter(NewServer(env.retriever, env.catalog, env.health, nil), opts)
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

func sampleResults() []result.Result {
	return []result.Result{
		result.NewPhilosophy(0.9, "opening", "the self is awareness", corpus.Response{
			ID: 10, TraditionName: "Advaita Vedanta", QuestionNumber: "1.1",
			QuestionTitle: "What is the self?", Opening: "The self is consciousness.",
		}),
		result.NewVedabase(0.8, corpus.VerseChunk{
			Text: "As the embodied soul", ChunkType: corpus.ChunkVerseText,
			Verse: corpus.Verse{ID: 1000, BookCode: "bg", BookName: "Bhagavad-gita", Chapter: "2", VerseNumber: "13"},
		}),
	}
}

// --- POST /query ---

func TestQuery_Success(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	env.retriever.fn = func(ctx context.Context, q query.Query) (retrieval.Response, error) {
		domain.UsageFromContext(ctx).Record(domain.EmbeddingResult{TotalTokens: 7})
		return retrieval.Response{Query: q.Text(), Results: sampleResults()}, nil
	}

	rr := env.do(http.MethodPost, "/query",
		`{"query":"what is the self","topK":5,"source":"all","traditionFilter":"advaita","bookFilter":"bg"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get(EmbeddingTokensHeader); got != "7" {
		t.Errorf("embedding tokens header = %q", got)
	}

	var resp QueryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Query != "what is the self" || resp.Count != 2 || len(resp.Results) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	p, v := resp.Results[0], resp.Results[1]
	if p.Source != "philosophy" || p.Response == nil || p.VedabaseVerse != nil || p.Response.ID != "10" {
		t.Errorf("unexpected philosophy result %+v", p)
	}
	if v.Source != "vedabase" || v.VedabaseVerse == nil || v.Response != nil || v.VedabaseVerse.BookCode != "bg" {
		t.Errorf("unexpected vedabase result %+v", v)
	}

	q := env.retriever.last
	if q.TopK() != 5 || q.Tradition() != "advaita" || q.BookCode() != "bg" {
		t.Errorf("query not mapped: topK=%d tradition=%q book=%q", q.TopK(), q.Tradition(), q.BookCode())
	}
}

func TestQuery_CacheHitOmitsTokenHeader(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	env.retriever.fn = func(ctx context.Context, q query.Query) (retrieval.Response, error) {
		domain.UsageFromContext(ctx).Record(domain.EmbeddingResult{Cached: true})
		return retrieval.Response{Query: q.Text()}, nil
	}

	rr := env.do(http.MethodPost, "/query", `{"query":"dharma"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get(EmbeddingTokensHeader) != "" {
		t.Error("token header must be absent on cache hit")
	}
	if !strings.Contains(rr.Body.String(), `"results":[]`) {
		t.Errorf("empty results must serialize as []: %s", rr.Body.String())
	}
}

func TestQuery_InvalidRequestsNeverReachRetriever(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"query":""}`,
		`{"query":"   "}`,
		`{"query":"x","topK":0}`,
		`{"query":"x","topK":-3}`,
		`{"query":"x","source":"bible"}`,
		fmt.Sprintf(`{"query":%q}`, strings.Repeat("a", query.MaxQueryLength+1)),
	}
	for _, body := range bodies {
		env := newTestEnv(RouterOptions{})
		rr := env.do(http.MethodPost, "/query", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%.30s: expected 400, got %d", body, rr.Code)
			continue
		}
		if e := decodeError(t, rr); e.Code != ErrorResponseCodeInvalidRequest {
			t.Errorf("%.30s: code = %s", body, e.Code)
		}
		if env.retriever.calls != 0 {
			t.Errorf("%.30s: retriever called for invalid request", body)
		}
	}
}

func TestQuery_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   ErrorResponseCode
	}{
		{fmt.Errorf("embed: %w", domain.ErrEmbeddingProviderError), http.StatusBadGateway, ErrorResponseCodeEmbeddingProviderError},
		{fmt.Errorf("%w: timeout", domain.ErrVectorSearchFailed), http.StatusBadGateway, ErrorResponseCodeVectorSearchFailed},
		{fmt.Errorf("%w: bad", domain.ErrInvalidRequest), http.StatusBadRequest, ErrorResponseCodeInvalidRequest},
		{errors.New("boom"), http.StatusInternalServerError, ErrorResponseCodeInternalError},
	}
	for _, tc := range tests {
		env := newTestEnv(RouterOptions{})
		env.retriever.fn = func(context.Context, query.Query) (retrieval.Response, error) {
			return retrieval.Response{}, tc.err
		}
		rr := env.do(http.MethodPost, "/query", `{"query":"dharma"}`)
		if rr.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rr.Code, tc.status)
			continue
		}
		e := decodeError(t, rr)
		if e.Code != tc.code {
			t.Errorf("%v: code = %s, want %s", tc.err, e.Code, tc.code)
		}
		if strings.Contains(e.Message, "timeout") || strings.Contains(e.Message, "boom") {
			t.Errorf("upstream detail leaked: %q", e.Message)
		}
	}
}

// --- Catalog ---

func TestListTraditions(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	env.catalog.traditions = []string{"Advaita Vedanta", "Gaudiya Vaishnavism"}

	rr := env.do(http.MethodGet, "/traditions", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp TraditionsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Traditions) != 2 {
		t.Errorf("unexpected traditions %v", resp.Traditions)
	}
}

func TestListQuestions_TraditionParam(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	env.catalog.questions = []corpus.Question{{Number: "1.1", Title: "What is the self?"}}

	rr := env.do(http.MethodGet, "/questions?tradition=Advaita%20Vedanta", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if env.catalog.lastTradition != "Advaita Vedanta" {
		t.Errorf("tradition = %q", env.catalog.lastTradition)
	}
	var resp QuestionsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Questions) != 1 || resp.Questions[0].Number != "1.1" {
		t.Errorf("unexpected questions %+v", resp.Questions)
	}

	env.do(http.MethodGet, "/questions", "")
	if env.catalog.lastTradition != "" {
		t.Errorf("expected no tradition filter, got %q", env.catalog.lastTradition)
	}
}

func TestListBooks(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	env.catalog.books = []corpus.Book{{Code: "bg", Name: "Bhagavad-gita As It Is"}}

	rr := env.do(http.MethodGet, "/vedabase-books", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp BooksResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Books) != 1 || resp.Books[0].Code != "bg" {
		t.Errorf("unexpected books %+v", resp.Books)
	}
}

func TestCatalogError_500(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	env.catalog.err = errors.New("db down")

	for _, path := range []string{"/traditions", "/questions", "/vedabase-books"} {
		rr := env.do(http.MethodGet, path, "")
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", path, rr.Code)
		}
	}
}

// --- Health, routing, middleware ---

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	rr := env.do(http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	env.health.report = healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}
	rr = env.do(http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" || resp.Checks["database"] != "error" {
		t.Errorf("unexpected health response %+v", resp)
	}
}

func TestRouter_AuthExemptsHealth(t *testing.T) {
	env := newTestEnv(RouterOptions{APIKeys: []string{"secret"}})

	if rr := env.do(http.MethodGet, "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rr.Code)
	}
	if rr := env.do(http.MethodGet, "/traditions", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("traditions: expected 401, got %d", rr.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := newTestEnv(RouterOptions{APIKeys: []string{"secret"}, AllowedOrigins: []string{"https://example.org"}})

	req := httptest.NewRequest(http.MethodOptions, "/query", http.NoBody)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.org" {
		t.Errorf("allow origin = %q", got)
	}
	if rr.Code == http.StatusUnauthorized {
		t.Error("preflight must not require authentication")
	}
}

func TestRouter_RequestIDAndNotFound(t *testing.T) {
	env := newTestEnv(RouterOptions{})
	rr := env.do(http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorResponseCodeInternalError {
		t.Errorf("code = %s", e.Code)
	}
}
