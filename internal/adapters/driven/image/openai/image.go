// Package openai provides the cover image generation adapter.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/openaiapi"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure ImageGenerator implements the interface.
var _ driven.ImageGenerator = (*ImageGenerator)(nil)

// Default request values.
const (
	DefaultModel = "dall-e-3"
	DefaultSize  = "1024x1024"
)

// Config holds configuration for the image adapter.
type Config struct {
	APIKey  string
	BaseURL string
	Limiter *ratelimit.Limiter
}

// ImageGenerator renders images with the OpenAI images endpoint.
type ImageGenerator struct {
	client *openaiapi.Client
}

// NewImageGenerator creates a new image adapter.
func NewImageGenerator(cfg Config) (*ImageGenerator, error) {
	client, err := openaiapi.NewClient(openaiapi.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Limiter: cfg.Limiter,
	})
	if err != nil {
		return nil, err
	}
	return &ImageGenerator{client: client}, nil
}

// Generate returns the decoded PNG for req. Quality is only sent to
// dall-e-3; other models reject it.
func (g *ImageGenerator) Generate(ctx context.Context, req driven.ImageRequest) ([]byte, error) {
	apiReq := openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          req.Model,
		Size:           req.Size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}
	if apiReq.Model == "" {
		apiReq.Model = DefaultModel
	}
	if apiReq.Size == "" {
		apiReq.Size = DefaultSize
	}
	if apiReq.Model == openai.CreateImageModelDallE3 {
		apiReq.Quality = req.Quality
	}

	var resp openai.ImageResponse
	err := g.client.Do(ctx, "image", func(ctx context.Context) error {
		var err error
		resp, err = g.client.API.CreateImage(ctx, apiReq)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("openai: image returned no data")
	}

	png, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai: decode image: %w", err)
	}
	return png, nil
}
