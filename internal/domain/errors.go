package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed query. Raised before any upstream call.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound signals a record that could not be resolved in the relational store.
	ErrNotFound = errors.New("not found")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorSearchFailed signals a vector index failure.
	ErrVectorSearchFailed = errors.New("vector search failed")
)
