// Package openaiapi holds the go-openai client setup and call wrapper shared
// by the OpenAI embedding, judge, moderation, speech and image adapters.
package openaiapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 60 * time.Second

// Config holds connection settings for the OpenAI API.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API endpoint for Azure or compatible servers.
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Limiter throttles calls; nil disables throttling.
	Limiter *ratelimit.Limiter
}

// Client wraps a go-openai client with throttling.
type Client struct {
	API     *openai.Client
	limiter *ratelimit.Limiter
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		API:     openai.NewClientWithConfig(clientCfg),
		limiter: cfg.Limiter,
	}, nil
}

// Do takes a limiter token, waiting only when none is free, then runs call. A 429 from the API sets a
// backoff window on the limiter and is reported as domain.ErrRateLimited.
func (c *Client) Do(ctx context.Context, op string, call func(context.Context) error) error {
	if !c.limiter.Allow() {
		logger.Debug("openai: %s throttled, waiting for the rate limiter", op)
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("openai: %s: %w", op, err)
		}
	}

	err := call(ctx)
	if err == nil {
		return nil
	}
	if IsRateLimited(err) {
		c.limiter.Backoff(0)
		return fmt.Errorf("openai: %s: %w: %w", op, domain.ErrRateLimited, err)
	}
	return fmt.Errorf("openai: %s: %w", op, err)
}

// Ping lists models, which validates the key without running inference.
func (c *Client) Ping(ctx context.Context) error {
	return c.Do(ctx, "ping", func(ctx context.Context) error {
		_, err := c.API.ListModels(ctx)
		return err
	})
}

// IsRateLimited reports whether err is an HTTP 429 from the API.
func IsRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
