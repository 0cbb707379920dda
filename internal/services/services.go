// Package services defines the external image-processing collaborators the
// compositor calls: AI image generation and the enhancement pipeline
// (background removal, upscale, enhance). The compositor treats them as
// opaque request/response services and never implements their logic.
package services

import (
	"context"
	"errors"
)

// ErrServiceUnavailable wraps transport-level collaborator failures. The
// caller surfaces a single user-facing message and leaves layer state
// untouched.
var ErrServiceUnavailable = errors.New("image service unavailable")

// GenerateRequest asks the generation collaborator for a new image.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

// GenerateResult is the generated image location plus its pixel size.
type GenerateResult struct {
	ImageURL    string `json:"image_url"`
	PixelWidth  int    `json:"pixel_width"`
	PixelHeight int    `json:"pixel_height"`
}

// EnhanceResult is the processed image location. For upscale calls,
// AppliedFactor reports the multiplier actually applied to both original
// pixel dimensions; callers use it to recompute DPI.
type EnhanceResult struct {
	ProcessedURL  string  `json:"processed_url"`
	AppliedFactor float64 `json:"applied_factor,omitempty"`
}

// Generator produces new images from a prompt. Calls may be slow; there is
// no cancellation beyond the context, and no partial result on error.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// Enhancer runs the image post-processing operations on an existing image.
type Enhancer interface {
	RemoveBackground(ctx context.Context, imageURL string) (EnhanceResult, error)
	Upscale(ctx context.Context, imageURL string, factor float64) (EnhanceResult, error)
	Enhance(ctx context.Context, imageURL string) (EnhanceResult, error)
}
