package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrGenerationFailed is returned when the text-generation call fails
	ErrGenerationFailed = errors.New("text generation request failed")

	// ErrEmptyGeneration is returned when the text-generation call yields no text
	ErrEmptyGeneration = errors.New("text generation returned no text")

	// ErrCatalogQueryFailed is returned when a catalog store query fails
	ErrCatalogQueryFailed = errors.New("catalog query failed")

	// ErrCacheUnavailable is returned when the aisle color cache cannot be reached
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
