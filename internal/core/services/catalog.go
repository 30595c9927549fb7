package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// wrapperKey is the object key holding the entry list in a wrapped dataset.
const wrapperKey = "books"

// Field names tried in order when reading an entry object.
var (
	titleFields   = []string{"title", "name"}
	summaryFields = []string{"summary", "description", "synopsis"}
)

// minSummaryWords is the word count a free-form field must exceed to be
// used as a summary when no summary field is present.
const minSummaryWords = 5

// field is one key/value pair of a JSON object, in document order.
type field struct {
	key   string
	value json.RawMessage
}

// LoadSummaries decodes a dataset into a catalog. The root may be an object
// mapping title to summary, an object whose "books" key holds an entry list,
// or an entry list. Anything else fails with domain.ErrUnsupportedShape.
func LoadSummaries(r io.Reader) (*domain.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	root := bytes.TrimSpace(data)
	if !json.Valid(root) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrUnsupportedShape)
	}

	switch kindOf(root) {
	case '{':
		fields, err := objectFields(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedShape, err)
		}
		for _, f := range fields {
			if f.key == wrapperKey && kindOf(f.value) == '[' {
				return loadEntryList(f.value)
			}
		}
		return loadTitleMap(fields), nil

	case '[':
		return loadEntryList(root)

	default:
		return nil, fmt.Errorf("%w: root is %s", domain.ErrUnsupportedShape, describeKind(root))
	}
}

// loadTitleMap builds a catalog from {title: summary} pairs.
func loadTitleMap(fields []field) *domain.Catalog {
	catalog := domain.NewCatalog()
	for _, f := range fields {
		summary := textOf(f.value)
		if kindOf(f.value) == 'n' {
			summary = ""
		}
		putRecord(catalog, f.key, summary)
	}
	return catalog
}

// loadEntryList builds a catalog from a list of objects or scalars.
func loadEntryList(raw json.RawMessage) (*domain.Catalog, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedShape, err)
	}

	catalog := domain.NewCatalog()
	for i, item := range items {
		fallbackTitle := "Book " + strconv.Itoa(i+1)

		if kindOf(item) != '{' {
			summary := textOf(item)
			if kindOf(item) == 'n' {
				summary = ""
			}
			putRecord(catalog, fallbackTitle, summary)
			continue
		}

		fields, err := objectFields(item)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", domain.ErrUnsupportedShape, i+1, err)
		}

		title := firstScalar(fields, titleFields)
		if title == "" {
			title = fallbackTitle
		}

		summary := firstString(fields, summaryFields)
		if summary == "" {
			summary = longestFreeText(fields)
		}

		putRecord(catalog, title, summary)
	}
	return catalog, nil
}

// putRecord trims the pair and adds it, skipping empty titles.
func putRecord(catalog *domain.Catalog, title, summary string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = domain.NoSummaryPlaceholder
	}
	catalog.Put(title, summary)
}

// firstString returns the first non-empty string value among names.
func firstString(fields []field, names []string) string {
	for _, name := range names {
		for _, f := range fields {
			if f.key != name || kindOf(f.value) != '"' {
				continue
			}
			if s := strings.TrimSpace(textOf(f.value)); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstScalar is firstString that also accepts numbers, so numeric
// titles such as 1984 are kept.
func firstScalar(fields []field, names []string) string {
	for _, name := range names {
		for _, f := range fields {
			if f.key != name {
				continue
			}
			if k := kindOf(f.value); k != '"' && k != '0' {
				continue
			}
			if s := strings.TrimSpace(textOf(f.value)); s != "" {
				return s
			}
		}
	}
	return ""
}

// longestFreeText returns the first string value, in document order,
// with more than minSummaryWords words.
func longestFreeText(fields []field) string {
	for _, f := range fields {
		if kindOf(f.value) != '"' {
			continue
		}
		s := textOf(f.value)
		if len(strings.Fields(s)) > minSummaryWords {
			return s
		}
	}
	return ""
}

// objectFields decodes a JSON object keeping key order.
func objectFields(raw json.RawMessage) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: value})
	}
	return fields, nil
}

// textOf returns a string value unquoted, and any other value as compact JSON.
func textOf(raw json.RawMessage) string {
	if kindOf(raw) == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// kindOf returns the first byte of a JSON value, mapping literals to
// 'n' (null), 'b' (bool) and '0' (number).
func kindOf(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	switch c := raw[0]; c {
	case '{', '[', '"':
		return c
	case 'n':
		return 'n'
	case 't', 'f':
		return 'b'
	default:
		return '0'
	}
}

func describeKind(raw json.RawMessage) string {
	switch kindOf(raw) {
	case '"':
		return "a string"
	case 'n':
		return "null"
	case 'b':
		return "a boolean"
	default:
		return "a number"
	}
}

// CatalogService loads the dataset file, caching the result until the
// file changes.
type CatalogService struct {
	path string

	mu      sync.Mutex
	cached  *domain.Catalog
	modTime time.Time
	size    int64
}

// NewCatalogService creates a catalog service for the dataset at path.
func NewCatalogService(path string) *CatalogService {
	return &CatalogService{path: path}
}

// Path returns the dataset file path.
func (s *CatalogService) Path() string {
	return s.path
}

// Load reads and normalises the dataset file.
func (s *CatalogService) Load(ctx context.Context) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return s.cached, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	catalog, err := LoadSummaries(f)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedShape) {
			logger.Warn("Dataset %s has an unsupported shape: %v", s.path, err)
		}
		return nil, err
	}

	logger.Debug("Loaded %d books from %s", catalog.Len(), s.path)
	s.cached = catalog
	s.modTime = info.ModTime()
	s.size = info.Size()
	return catalog, nil
}
