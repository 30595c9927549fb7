package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "plain title",
			uri:      "librarian://books/Dune",
			expected: "Dune",
		},
		{
			name:     "escaped title",
			uri:      "librarian://books/The%20Hobbit",
			expected: "The Hobbit",
		},
		{
			name:     "invalid prefix",
			uri:      "file://books/Dune",
			expected: "",
		},
		{
			name:     "bad escape",
			uri:      "librarian://books/%zz",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractTitle(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleBooksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns titles", func(t *testing.T) {
		librarian := &mockLibrarianService{titles: []string{"Dune", "1984"}}
		server, err := NewServer(&Ports{Librarian: librarian})
		require.NoError(t, err)

		result, err := server.handleBooksResource(ctx, makeReadResourceRequest("librarian://books"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.JSONEq(t, `["Dune", "1984"]`, result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("empty catalog returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Librarian: &mockLibrarianService{}})
		require.NoError(t, err)

		result, err := server.handleBooksResource(ctx, makeReadResourceRequest("librarian://books"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Librarian: &mockLibrarianService{err: errors.New("dataset missing")}})
		require.NoError(t, err)

		_, err = server.handleBooksResource(ctx, makeReadResourceRequest("librarian://books"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing books")
	})
}

func TestServer_handleSummaryResource(t *testing.T) {
	ctx := context.Background()
	librarian := &mockLibrarianService{summaries: map[string]string{"The Hobbit": "There and back again."}}
	server, err := NewServer(&Ports{Librarian: librarian})
	require.NoError(t, err)

	t.Run("returns summary", func(t *testing.T) {
		result, err := server.handleSummaryResource(ctx, makeReadResourceRequest("librarian://books/The%20Hobbit"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "There and back again.", result.Contents[0].Text)
	})

	t.Run("unknown title returns not found", func(t *testing.T) {
		_, err := server.handleSummaryResource(ctx, makeReadResourceRequest("librarian://books/Unknown"))
		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		_, err := server.handleSummaryResource(ctx, makeReadResourceRequest("librarian://invalid"))
		require.Error(t, err)
	})
}
