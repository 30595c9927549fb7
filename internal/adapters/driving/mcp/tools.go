package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// defaultSearchLimit is used when the search tool is called without a limit.
const defaultSearchLimit = 5

// RecommendInput is the input schema for the recommend tool.
type RecommendInput struct {
	Query string `json:"query" jsonschema:"what the reader is in the mood for"`
}

// RecommendOutput is the output schema for the recommend tool.
type RecommendOutput struct {
	Blocked bool   `json:"blocked"`
	Refusal string `json:"refusal,omitempty"`
	Title   string `json:"title,omitempty"`
	Why     string `json:"why,omitempty"`
	Summary string `json:"summary,omitempty"`

	Candidates []HitOutput `json:"candidates,omitempty"`
	Notices    []string    `json:"notices,omitempty"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the query to find books for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of books to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []HitOutput `json:"results"`
	Count   int         `json:"count"`
}

// HitOutput represents a single retrieved book.
type HitOutput struct {
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// SummaryInput is the input schema for the get_summary_by_title tool.
type SummaryInput struct {
	Title string `json:"title" jsonschema:"the exact book title"`
}

// SummaryOutput is the output schema for the get_summary_by_title tool.
type SummaryOutput struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend one book from the catalog for a reader's request, with a short rationale",
	}, s.handleRecommend)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_summary_by_title",
		Description: "Return the full summary for an exact book title",
	}, s.handleSummary)

	if s.ports.Search != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search",
			Description: "Find the books whose summaries are closest to a query",
		}, s.handleSearch)
	}
}

// handleRecommend handles the recommend tool invocation.
func (s *Server) handleRecommend(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecommendInput,
) (*mcp.CallToolResult, RecommendOutput, error) {
	turn, err := s.ports.Librarian.Recommend(ctx, input.Query)
	if err != nil {
		return nil, RecommendOutput{}, err
	}

	output := RecommendOutput{
		Blocked:    turn.Blocked,
		Refusal:    turn.Refusal,
		Summary:    turn.Summary,
		Candidates: hitOutputs(turn.Hits),
		Notices:    turn.Notices,
	}
	if turn.Recommendation != nil {
		output.Title = turn.Recommendation.Title
		output.Why = turn.Recommendation.Why
	}
	return nil, output, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if s.ports.Search == nil {
		return nil, SearchOutput{}, errors.New("search is not available")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits, err := s.ports.Search.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results := hitOutputs(hits)
	if results == nil {
		results = []HitOutput{}
	}
	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

// handleSummary handles the get_summary_by_title tool invocation.
func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	summary, err := s.ports.Librarian.SummaryByTitle(ctx, input.Title)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, SummaryOutput{Title: input.Title, Summary: summary}, nil
}

func hitOutputs(hits []domain.SearchHit) []HitOutput {
	if len(hits) == 0 {
		return nil
	}
	out := make([]HitOutput, len(hits))
	for i := range hits {
		out[i] = HitOutput{
			Title:   hits[i].Title,
			Summary: hits[i].Summary,
			Score:   hits[i].Score,
			Rank:    hits[i].Rank,
		}
	}
	return out
}
