package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 120 * time.Second

// HTTPClient talks to the image-processing backend over JSON POST
// endpoints. It implements both Generator and Enhancer.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the given service base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Generate requests a new AI-generated image.
func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	var out GenerateResult
	err := c.post(ctx, "/v1/generate", req, &out)
	return out, err
}

// RemoveBackground requests background removal for an image.
func (c *HTTPClient) RemoveBackground(ctx context.Context, imageURL string) (EnhanceResult, error) {
	var out EnhanceResult
	err := c.post(ctx, "/v1/remove-background", map[string]string{"image_url": imageURL}, &out)
	return out, err
}

// Upscale requests an upscale by the given factor. The result reports the
// factor actually applied, which may differ from the request.
func (c *HTTPClient) Upscale(ctx context.Context, imageURL string, factor float64) (EnhanceResult, error) {
	var out EnhanceResult
	err := c.post(ctx, "/v1/upscale", map[string]any{"image_url": imageURL, "factor": factor}, &out)
	return out, err
}

// Enhance requests a general quality enhancement pass.
func (c *HTTPClient) Enhance(ctx context.Context, imageURL string) (EnhanceResult, error) {
	var out EnhanceResult
	err := c.post(ctx, "/v1/enhance", map[string]string{"image_url": imageURL}, &out)
	return out, err
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrServiceUnavailable, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
