package vedarag

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped from the server's error codes.
// Use errors.Is() to check.
var (
	ErrInvalidRequest         = errors.New("vedarag: invalid request")
	ErrUnauthorized           = errors.New("vedarag: unauthorized")
	ErrEmbeddingProviderError = errors.New("vedarag: embedding provider error")
	ErrVectorSearchFailed     = errors.New("vedarag: vector search failed")
	ErrInternal               = errors.New("vedarag: internal server error")
	ErrUnavailable            = errors.New("vedarag: service unavailable")
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vedarag: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

// Unwrap maps the error code onto a sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "invalid_request":
		return ErrInvalidRequest
	case "unauthorized":
		return ErrUnauthorized
	case "embedding_provider_error":
		return ErrEmbeddingProviderError
	case "vector_search_failed":
		return ErrVectorSearchFailed
	}
	switch {
	case e.StatusCode == 401:
		return ErrUnauthorized
	case e.StatusCode == 503:
		return ErrUnavailable
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return ErrInvalidRequest
	default:
		return ErrInternal
	}
}
