package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrIntegrity indicates stored bytes no longer match their custody record
	ErrIntegrity = errors.New("integrity check failed")

	// ErrEmbeddingUnavailable indicates no embedding service is configured or reachable
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrLockNotAcquired indicates another instance holds the lock
	ErrLockNotAcquired = errors.New("lock not acquired")

	// ErrInvalidProvider indicates an unknown embedding provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates a dependent service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
