// Package storage persists built catalog indices between runs.
//
// A cache entry is a Snapshot (entities, token corpora and raw BM25
// statistics) plus a small Metadata record. The metadata carries the source
// modification timestamp the snapshot was built from, so a caller can decide
// whether the cache is fresh without decoding the snapshot.
//
// # Encoding
//
// Snapshots are encoded with Core Deterministic CBOR, compressed with zstd,
// and checksummed with blake3-256. The checksum lives in the metadata and is
// verified before decoding:
//
//	blob, checksum, err := storage.EncodeSnapshot(snap)
//	snap, err := storage.DecodeSnapshot(blob, checksum)
//
// Any checksum, decode, alignment or count mismatch is reported as
// types.ErrCacheCorrupt. A snapshot whose schema major version differs from
// SnapshotSchemaVersion is reported as ErrSchemaMismatch.
//
// # Backends
//
// FileStore (the default) writes api_index.bin and metadata.json into the
// cache directory through temporary files and renames.
//
// SQLiteStore keeps the same data in a single-row table of api_index.db and
// records every persisted build in index_builds. Its schema is managed by
// semver-versioned migrations.
//
//	store, err := storage.Open(storage.BackendSQLite, cacheDir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// # Build Tags
//
// The tags only choose the SQLite driver. The binary always needs cgo,
// because the stub parser links the tree-sitter C runtime.
//
// cgo_sqlite tag:
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//     go build -tags "cgo_sqlite"
//
// Default (or the purego tag):
//
//   - Uses modernc.org/sqlite driver, so SQLite itself adds no C code
//
//     go build
package storage
