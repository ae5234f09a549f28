package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"
)

// SQLiteFileName is the database file inside the cache directory
const SQLiteFileName = "api_index.db"

// SQLiteStore keeps the snapshot in a single-row table of a SQLite database
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens (or creates) the cache database in dir
func NewSQLiteStore(dir string) (*SQLiteStore, error) {
	path := filepath.Join(dir, SQLiteFileName)
	db, err := openDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// ReadMetadata implements Store
func (s *SQLiteStore) ReadMetadata(ctx context.Context) (*Metadata, error) {
	query := `
		SELECT source_timestamp, total_functions, total_classes, snapshot_version, checksum, built_at
		FROM index_cache WHERE id = 1
	`
	var meta Metadata
	var builtAt string
	err := s.db.QueryRowContext(ctx, query).Scan(
		&meta.SourceTimestamp,
		&meta.TotalFunctions,
		&meta.TotalClasses,
		&meta.SchemaVersion,
		&meta.Checksum,
		&builtAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	meta.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse built_at %q: %w", builtAt, err)
	}
	return &meta, nil
}

// ReadSnapshot implements Store
func (s *SQLiteStore) ReadSnapshot(ctx context.Context, meta *Metadata) (*Snapshot, error) {
	if err := checkSchema(meta.SchemaVersion); err != nil {
		return nil, err
	}

	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT snapshot FROM index_cache WHERE id = 1").Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	snap, err := DecodeSnapshot(blob, meta.Checksum)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(meta); err != nil {
		return nil, err
	}
	return snap, nil
}

// Write implements Store. Snapshot and metadata are replaced in one
// transaction.
func (s *SQLiteStore) Write(ctx context.Context, snap *Snapshot, meta *Metadata) error {
	blob, err := sealSnapshot(snap, meta)
	if err != nil {
		return err
	}
	if meta.BuiltAt.IsZero() {
		meta.BuiltAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
		INSERT INTO index_cache (id, source_timestamp, total_functions, total_classes, snapshot_version, checksum, snapshot, built_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_timestamp = excluded.source_timestamp,
			total_functions = excluded.total_functions,
			total_classes = excluded.total_classes,
			snapshot_version = excluded.snapshot_version,
			checksum = excluded.checksum,
			snapshot = excluded.snapshot,
			built_at = excluded.built_at
	`
	if _, err := tx.ExecContext(ctx, upsert,
		meta.SourceTimestamp, meta.TotalFunctions, meta.TotalClasses,
		meta.SchemaVersion, meta.Checksum, blob, meta.BuiltAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	history := `
		INSERT INTO index_builds (source_timestamp, total_functions, total_classes, checksum, built_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, history,
		meta.SourceTimestamp, meta.TotalFunctions, meta.TotalClasses, meta.Checksum, meta.BuiltAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}

	return tx.Commit()
}

// BuildCount returns how many snapshots have been persisted
func (s *SQLiteStore) BuildCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM index_builds").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count builds: %w", err)
	}
	return count, nil
}

// Location implements Store
func (s *SQLiteStore) Location() string {
	return s.path
}

// Backend implements Store
func (s *SQLiteStore) Backend() string {
	return BackendSQLite
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
