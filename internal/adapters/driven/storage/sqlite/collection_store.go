package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// ==================== Collection Store ====================

// collectionStore implements driven.CollectionStore.
type collectionStore struct {
	store *Store
}

var _ driven.CollectionStore = (*collectionStore)(nil)

// Upsert inserts or replaces documents in a single transaction.
func (s *collectionStore) Upsert(ctx context.Context, docs []domain.IndexedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (collection, id, title, summary, document, embedding, dimensions, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			document = excluded.document,
			embedding = excluded.embedding,
			dimensions = excluded.dimensions,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for i := range docs {
		doc := &docs[i]
		if doc.Collection == "" || doc.ID == "" {
			return fmt.Errorf("saving book %q: %w: collection and id are required", doc.Title, domain.ErrInvalidInput)
		}
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("saving book %q: %w: embedding is empty", doc.Title, domain.ErrInvalidInput)
		}
		_, err := stmt.ExecContext(ctx,
			doc.Collection,
			doc.ID,
			nullString(doc.Title),
			nullString(doc.Summary),
			doc.Summary,
			float32SliceToBytes(doc.Embedding),
			len(doc.Embedding),
		)
		if err != nil {
			return fmt.Errorf("saving book %q: %w", doc.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Query ranks every document in the collection by cosine distance to vector.
func (s *collectionStore) Query(
	ctx context.Context, collection string, vector []float32, k int,
) ([]driven.CollectionMatch, error) {
	if k <= 0 {
		return []driven.CollectionMatch{}, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, title, summary, document, embedding
		FROM books
		WHERE collection = ?
		ORDER BY rowid
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	matches := []driven.CollectionMatch{}
	for rows.Next() {
		var (
			id, document   string
			title, summary sql.NullString
			blob           []byte
		)
		if err := rows.Scan(&id, &title, &summary, &document, &blob); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}

		distance, ok := domain.CosineDistance(vector, bytesToFloat32Slice(blob))
		if !ok {
			return nil, fmt.Errorf("book %s: %w: query has %d dimensions, stored vector has %d",
				id, domain.ErrInvalidInput, len(vector), len(blob)/4)
		}

		match := driven.CollectionMatch{
			ID:       id,
			Title:    title.String,
			Summary:  summary.String,
			Distance: distance,
		}
		if !summary.Valid {
			match.Summary = document
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Get retrieves a document by ID.
func (s *collectionStore) Get(ctx context.Context, collection, id string) (*domain.IndexedDocument, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT title, summary, document, embedding
		FROM books
		WHERE collection = ? AND id = ?
	`, collection, id)

	var (
		title, summary sql.NullString
		document       string
		blob           []byte
	)
	if err := row.Scan(&title, &summary, &document, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting book: %w", err)
	}

	doc := &domain.IndexedDocument{
		ID:         id,
		Collection: collection,
		Title:      title.String,
		Summary:    summary.String,
		Embedding:  bytesToFloat32Slice(blob),
	}
	if !summary.Valid {
		doc.Summary = document
	}
	return doc, nil
}

// Count returns the number of documents in a collection.
func (s *collectionStore) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM books WHERE collection = ?", collection,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// Collections lists every collection with its document count.
func (s *collectionStore) Collections(ctx context.Context) ([]driven.CollectionInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT collection, COUNT(*)
		FROM books
		GROUP BY collection
		ORDER BY collection
	`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var infos []driven.CollectionInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info driven.CollectionInfo
		if err := rows.Scan(&info.Name, &info.Count); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Reset deletes every document in every collection.
func (s *collectionStore) Reset(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM books"); err != nil {
		return fmt.Errorf("resetting books: %w", err)
	}
	return nil
}

// Close is a no-op; the owning Store closes the connection.
func (s *collectionStore) Close() error {
	return nil
}

// nullString maps empty strings to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
