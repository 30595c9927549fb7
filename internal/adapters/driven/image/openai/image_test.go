package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

func newGenerator(t *testing.T, check func(req map[string]any)) *ImageGenerator {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		check(req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data":    []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString([]byte("PNGDATA"))}},
		})
	}))
	t.Cleanup(server.Close)

	g, err := NewImageGenerator(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	return g
}

func TestGenerate_DallE3SendsQuality(t *testing.T) {
	g := newGenerator(t, func(req map[string]any) {
		assert.Equal(t, "dall-e-3", req["model"])
		assert.Equal(t, "1024x1024", req["size"])
		assert.Equal(t, "hd", req["quality"])
		assert.Equal(t, "b64_json", req["response_format"])
	})

	png, err := g.Generate(context.Background(), driven.ImageRequest{
		Prompt: "cover", Model: "dall-e-3", Size: "1024x1024", Quality: "hd",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), png)
}

func TestGenerate_OtherModelsOmitQuality(t *testing.T) {
	g := newGenerator(t, func(req map[string]any) {
		assert.Equal(t, "dall-e-2", req["model"])
		assert.Equal(t, "512x512", req["size"])
		_, hasQuality := req["quality"]
		assert.False(t, hasQuality)
	})

	_, err := g.Generate(context.Background(), driven.ImageRequest{
		Prompt: "cover", Model: "dall-e-2", Size: "512x512", Quality: "hd",
	})
	require.NoError(t, err)
}

func TestGenerate_Defaults(t *testing.T) {
	g := newGenerator(t, func(req map[string]any) {
		assert.Equal(t, DefaultModel, req["model"])
		assert.Equal(t, DefaultSize, req["size"])
	})

	_, err := g.Generate(context.Background(), driven.ImageRequest{Prompt: "cover"})
	require.NoError(t, err)
}
