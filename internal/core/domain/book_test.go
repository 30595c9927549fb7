package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookID(t *testing.T) {
	t.Run("is the hex md5 of the title", func(t *testing.T) {
		// md5("Dune")
		assert.Equal(t, "9b237584654fe1ef24a81c77510b4492", BookID("Dune"))
		assert.Len(t, BookID("1984"), 32)
	})

	t.Run("is stable across calls", func(t *testing.T) {
		assert.Equal(t, BookID("The Hobbit"), BookID("The Hobbit"))
	})

	t.Run("ignores surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, BookID("The Hobbit"), BookID("  The Hobbit\n"))
	})

	t.Run("differs per title", func(t *testing.T) {
		assert.NotEqual(t, BookID("Dune"), BookID("dune"))
	})
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"text-embedding-3-small", "text-embedding-3-small"},
		{"Nomic Embed/Text:latest", "nomic-embed-text-latest"},
		{"  --weird__Model--  ", "weird-model"},
		{"", "untitled"},
		{"***", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "books_text-embedding-3-small", CollectionName("text-embedding-3-small"))
	assert.Equal(t, "books_nomic-embed-text", CollectionName("nomic-embed-text"))
	assert.NotEqual(t, CollectionName("a"), CollectionName("b"))
}

func TestCatalog(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		c := NewCatalog()
		c.Put("Dune", "A desert planet.")
		c.Put("1984", "A surveillance dystopia.")
		c.Put("Emma", "A matchmaker.")

		assert.Equal(t, []string{"Dune", "1984", "Emma"}, c.Titles())
		assert.Equal(t, 3, c.Len())
	})

	t.Run("duplicate title replaces summary in place", func(t *testing.T) {
		c := NewCatalog()
		c.Put("Dune", "first")
		c.Put("1984", "other")
		c.Put("Dune", "second")

		require.Equal(t, 2, c.Len())
		records := c.Records()
		assert.Equal(t, BookRecord{Title: "Dune", Summary: "second"}, records[0])
	})

	t.Run("summary lookup is exact", func(t *testing.T) {
		c := NewCatalog()
		c.Put("Dune", "A desert planet.")

		s, ok := c.Summary("Dune")
		assert.True(t, ok)
		assert.Equal(t, "A desert planet.", s)

		_, ok = c.Summary("dune")
		assert.False(t, ok)
	})

	t.Run("records returns a copy", func(t *testing.T) {
		c := NewCatalog()
		c.Put("Dune", "A desert planet.")

		records := c.Records()
		records[0].Summary = "mutated"

		s, _ := c.Summary("Dune")
		assert.Equal(t, "A desert planet.", s)
	})
}
