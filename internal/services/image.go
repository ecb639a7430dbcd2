package services

import "context"

// RenderRequest describes one illustration to generate. Dimensions of
// zero fall back to the service defaults.
type RenderRequest struct {
	PositivePrompt string
	NegativePrompt string
	Model          string
	Steps          int
	CFGScale       float64
	Width          int
	Height         int
}

// ImageService is the contract with the image-generation collaborator.
// Images are purely decorative; a nil result with no error means the
// service produced nothing, which callers treat the same as a failure.
type ImageService interface {
	// Render generates a single image and returns its PNG bytes.
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}
