package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Callers dispatch with errors.Is;
// sites that raise them wrap with %w and add detail.
var (
	// ErrInvalidInput marks malformed or empty request data (caller's fault).
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse marks a document that could not be decoded (caller's fault).
	ErrParse = errors.New("parse error")

	// ErrEmbedding marks an embedding oracle failure (dependency's fault).
	// The core surfaces it without retrying.
	ErrEmbedding = errors.New("embedding failure")

	// ErrNoProvider marks a deployment with no generation backend configured.
	ErrNoProvider = errors.New("no generation provider configured")
)

// DimensionError reports configuration drift between an index and the
// embedder feeding it. It is fatal to the operation that detected it;
// vectors are never truncated or padded to fit.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: index expects %d, got %d", e.Want, e.Got)
}
