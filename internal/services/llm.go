package services

import (
	"context"
	"errors"
)

// Service failure kinds. Callers recover from both by substituting
// fallback narrative; neither is surfaced to the player as a hard error.
var (
	// ErrServiceUnavailable indicates a transport failure reaching an
	// external collaborator.
	ErrServiceUnavailable = errors.New("generation service unavailable")

	// ErrMalformedResponse indicates the collaborator answered with
	// data that does not parse as expected.
	ErrMalformedResponse = errors.New("generation service returned malformed response")
)

// LLMService is the contract with the text-generation collaborator.
// Each call is a single synchronous best-effort attempt; no automatic
// retry is performed.
type LLMService interface {
	// InitModel ensures the model is available on startup.
	InitModel(ctx context.Context, modelName string) error

	// Complete generates text for a single prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}
