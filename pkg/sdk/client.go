package vedarag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultUserAgent = "vedarag-go"
	maxErrorBody     = 64 << 10
)

// Client is the vedarag SDK entry point. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	apiKey    string
	userAgent string
	obs       *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout, userAgent: defaultUserAgent}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("vedarag: invalid base URL %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   u.String(),
		http:      hc,
		apiKey:    cfg.apiKey,
		userAgent: cfg.userAgent,
		obs:       obs,
	}, nil
}

// Query runs a hybrid retrieval.
func (c *Client) Query(ctx context.Context, req QueryRequest) (resp *QueryResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("query", start, err) }()

	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}

	var out QueryResponse
	var hdr http.Header
	if err = c.do(ctx, http.MethodPost, "/query", req, &out, &hdr); err != nil {
		return nil, err
	}
	if v := hdr.Get("X-Embedding-Tokens"); v != "" {
		out.EmbeddingTokens, _ = strconv.Atoi(v)
	}
	return &out, nil
}

// Traditions lists philosophy traditions with responses.
func (c *Client) Traditions(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("traditions", start, err) }()

	var out struct {
		Traditions []string `json:"traditions"`
	}
	if err = c.do(ctx, http.MethodGet, "/traditions", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Traditions, nil
}

// Questions lists answered questions, optionally for one tradition.
func (c *Client) Questions(ctx context.Context, tradition string) (qs []Question, err error) {
	start := time.Now()
	defer func() { c.obs.observe("questions", start, err) }()

	path := "/questions"
	if tradition != "" {
		path += "?" + url.Values{"tradition": {tradition}}.Encode()
	}
	var out struct {
		Questions []Question `json:"questions"`
	}
	if err = c.do(ctx, http.MethodGet, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

// Books lists Vedabase books with content.
func (c *Client) Books(ctx context.Context) (books []Book, err error) {
	start := time.Now()
	defer func() { c.obs.observe("books", start, err) }()

	var out struct {
		Books []Book `json:"books"`
	}
	if err = c.do(ctx, http.MethodGet, "/vedabase-books", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Books, nil
}

// do sends a request and decodes a 2xx body into out. Non-2xx responses
// become *APIError. A 503 body is also decoded into out, since health
// reports travel with that status.
func (c *Client) do(ctx context.Context, method, path string, in, out any, hdr *http.Header) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("vedarag: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("vedarag: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vedarag: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if hdr != nil {
		*hdr = resp.Header
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("vedarag: decode response: %w", err)
		}
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var env struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &env) == nil {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	if resp.StatusCode == http.StatusServiceUnavailable && out != nil {
		_ = json.Unmarshal(data, out)
	}
	return apiErr
}

// IsRetryable reports whether err is worth retrying: upstream provider or
// index failures and unavailability.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrEmbeddingProviderError) ||
		errors.Is(err, ErrVectorSearchFailed) ||
		errors.Is(err, ErrUnavailable)
}
