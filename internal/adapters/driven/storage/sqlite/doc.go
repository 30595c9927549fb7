// Package sqlite provides the SQLite-backed book collection store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Every collection lives in one table,
// keyed by (collection, id), with embeddings stored as little-endian float32 BLOBs.
// Nearest-neighbour queries scan the collection and rank by cosine distance,
// which is plenty for a corpus of a few hundred books.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.librarian/index/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
