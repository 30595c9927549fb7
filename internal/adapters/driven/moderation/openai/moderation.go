// Package openai provides the hosted moderation classifier adapter.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/openaiapi"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure Moderator implements the interface.
var _ driven.Moderator = (*Moderator)(nil)

// DefaultModel is the moderation model used when none is configured.
const DefaultModel = "omni-moderation-latest"

// Config holds configuration for the moderation adapter.
type Config struct {
	APIKey  string
	BaseURL string

	// Model is the moderation model (default: omni-moderation-latest).
	Model string

	Limiter *ratelimit.Limiter
}

// Moderator classifies text with the OpenAI moderation endpoint.
type Moderator struct {
	client *openaiapi.Client
	model  string
}

// NewModerator creates a new moderation adapter.
func NewModerator(cfg Config) (*Moderator, error) {
	client, err := openaiapi.NewClient(openaiapi.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Limiter: cfg.Limiter,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Moderator{client: client, model: cfg.Model}, nil
}

// Moderate classifies text and returns the first result.
func (m *Moderator) Moderate(ctx context.Context, text string) (domain.ModerationResult, error) {
	var resp openai.ModerationResponse
	err := m.client.Do(ctx, "moderation", func(ctx context.Context) error {
		var err error
		resp, err = m.client.API.Moderations(ctx, openai.ModerationRequest{
			Input: text,
			Model: m.model,
		})
		return err
	})
	if err != nil {
		return domain.ModerationResult{}, err
	}
	if len(resp.Results) == 0 {
		return domain.ModerationResult{}, fmt.Errorf("openai: moderation returned no results")
	}

	first := resp.Results[0]
	result := domain.ModerationResult{
		Flagged: first.Flagged,
		Source:  domain.ModerationSourceRemote,
	}
	if err := remarshal(first.Categories, &result.Categories); err != nil {
		return domain.ModerationResult{}, fmt.Errorf("openai: moderation categories: %w", err)
	}
	if err := remarshal(first.CategoryScores, &result.Scores); err != nil {
		return domain.ModerationResult{}, fmt.Errorf("openai: moderation scores: %w", err)
	}
	return result, nil
}

// remarshal converts the SDK's fixed category structs into name-keyed maps,
// keeping the provider's category names ("hate/threatening").
func remarshal(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
