package domain

import (
	"crypto/md5" //nolint:gosec // Used for stable document ids, not security.
	"encoding/hex"
	"regexp"
	"strings"
)

// Placeholders used when the dataset or the index lacks a value.
const (
	// NoSummaryPlaceholder replaces a summary that could not be derived.
	NoSummaryPlaceholder = "(no summary provided)"

	// UntitledPlaceholder replaces a missing title on a stored document.
	UntitledPlaceholder = "(untitled)"

	// collectionPrefix namespaces collections by embedding model.
	collectionPrefix = "books_"
)

// BookRecord is one titled summary from the dataset.
type BookRecord struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Catalog is the full set of records loaded from the dataset, in dataset order.
// Titles are unique; a later duplicate replaces the earlier summary in place.
type Catalog struct {
	records []BookRecord
	index   map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Put adds a record or replaces the summary of an existing title.
func (c *Catalog) Put(title, summary string) {
	if i, ok := c.index[title]; ok {
		c.records[i].Summary = summary
		return
	}
	c.index[title] = len(c.records)
	c.records = append(c.records, BookRecord{Title: title, Summary: summary})
}

// Records returns the records in dataset order.
func (c *Catalog) Records() []BookRecord {
	out := make([]BookRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Titles returns every title in dataset order.
func (c *Catalog) Titles() []string {
	out := make([]string, len(c.records))
	for i := range c.records {
		out[i] = c.records[i].Title
	}
	return out
}

// Summary returns the summary for an exact title.
func (c *Catalog) Summary(title string) (string, bool) {
	i, ok := c.index[title]
	if !ok {
		return "", false
	}
	return c.records[i].Summary, true
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// IndexedDocument is a book summary stored in a collection with its embedding.
type IndexedDocument struct {
	// ID is BookID(Title); re-indexing a title overwrites instead of duplicating.
	ID string

	// Collection is the embedding-model namespace the document lives in.
	Collection string

	Title     string
	Summary   string
	Embedding []float32
}

// BookID returns the stable identifier for a title: hex md5 of the trimmed title.
func BookID(title string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(title))) //nolint:gosec // Not used for security.
	return hex.EncodeToString(sum[:])
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases s and collapses runs of anything but [a-z0-9] into "-".
// An empty result becomes "untitled".
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// CollectionName returns the collection used for an embedding model.
// Switching models starts a fresh collection instead of mixing vector spaces.
func CollectionName(embeddingModel string) string {
	return collectionPrefix + Slug(embeddingModel)
}
