package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedShape indicates the dataset JSON root is neither an object nor a list.
	// Loading stops without a partial catalog.
	ErrUnsupportedShape = errors.New("unsupported dataset shape")

	// ErrIndexUnavailable indicates the index could not be built or queried.
	// Recoverable by operator action such as a reset.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrSelectorUnavailable indicates the judge model call failed.
	// The selector recovers locally by picking the best-score hit.
	ErrSelectorUnavailable = errors.New("selector unavailable")

	// ErrModerationUnavailable indicates the remote moderation classifier failed.
	// The safety gate recovers with the local word-list heuristic.
	ErrModerationUnavailable = errors.New("moderation unavailable")

	// ErrSynthesisUnavailable indicates speech, transcription or image generation failed.
	// The optional artifact is omitted and the user is told it was skipped.
	ErrSynthesisUnavailable = errors.New("synthesis unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and retrieval are impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
