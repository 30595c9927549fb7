package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

const (
	// URIScheme is the custom URI scheme for librarian resources.
	uriScheme = "librarian://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing the catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "books",
		Name:        "books",
		Description: "Titles of every book in the catalog",
		MIMEType:    "application/json",
	}, s.handleBooksResource)

	// Template for one book's summary.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "books/{title}",
		Name:        "book-summary",
		Description: "Full summary of a book by exact title",
		MIMEType:    "text/plain",
	}, s.handleSummaryResource)
}

// handleBooksResource returns every title in the catalog.
func (s *Server) handleBooksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	titles, err := s.ports.Librarian.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}

	data, err := json.MarshalIndent(titles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling books: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSummaryResource returns the summary for the title in the URI.
func (s *Server) handleSummaryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	title := extractTitle(req.Params.URI)
	if title == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	summary, err := s.ports.Librarian.SummaryByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("getting summary: %w", err)
	}
	if summary == driving.NoExactMatch {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     summary,
		}},
	}, nil
}

// extractTitle extracts the unescaped title from a URI like librarian://books/{title}.
func extractTitle(uri string) string {
	const prefix = uriScheme + "books/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	title, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return title
}
