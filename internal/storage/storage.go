package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/bm25"
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when no cache has been written yet
	ErrNotFound = errors.New("not found")
	// ErrSchemaMismatch is returned when a cache was written by an
	// incompatible version
	ErrSchemaMismatch = errors.New("cache schema mismatch")
)

// SnapshotSchemaVersion is the layout version of Snapshot. Caches whose
// major version differs are rebuilt.
const SnapshotSchemaVersion = "1.0.0"

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store persists one index snapshot with its metadata
type Store interface {
	// ReadMetadata returns the metadata of the stored snapshot, or
	// ErrNotFound when nothing has been written yet.
	ReadMetadata(ctx context.Context) (*Metadata, error)

	// ReadSnapshot loads the snapshot described by meta. Checksum, schema
	// or count mismatches are reported as types.ErrCacheCorrupt.
	ReadSnapshot(ctx context.Context, meta *Metadata) (*Snapshot, error)

	// Write replaces the stored snapshot and metadata. meta.Checksum and
	// meta.SchemaVersion are filled in by the store.
	Write(ctx context.Context, snap *Snapshot, meta *Metadata) error

	// Location describes where the cache lives, for stats and logs
	Location() string

	// Backend returns the backend name
	Backend() string

	Close() error
}

// Metadata is the small record checked against the source before the
// snapshot itself is loaded
type Metadata struct {
	SourceTimestamp float64   `json:"sourceTimestamp"`
	TotalFunctions  int       `json:"totalFunctions"`
	TotalClasses    int       `json:"totalClasses"`
	SchemaVersion   string    `json:"schemaVersion"`
	Checksum        string    `json:"checksum"`
	BuiltAt         time.Time `json:"builtAt"`
}

// Snapshot is everything needed to serve queries without re-parsing:
// entities, their corpora, and the raw ranking statistics
type Snapshot struct {
	SchemaVersion  string                `json:"schema_version"`
	Functions      []types.FunctionEntry `json:"functions"`
	Classes        []types.ClassEntry    `json:"classes"`
	FunctionCorpus [][]string            `json:"function_corpus"`
	ClassCorpus    [][]string            `json:"class_corpus"`
	FunctionStats  bm25.Stats            `json:"function_stats"`
	ClassStats     bm25.Stats            `json:"class_stats"`
}

// Validate checks the internal alignment of the snapshot and its agreement
// with meta
func (s *Snapshot) Validate(meta *Metadata) error {
	if err := checkSchema(s.SchemaVersion); err != nil {
		return err
	}
	if len(s.FunctionCorpus) != len(s.Functions) || s.FunctionStats.DocCount != len(s.Functions) {
		return fmt.Errorf("%w: function corpus misaligned", types.ErrCacheCorrupt)
	}
	if len(s.ClassCorpus) != len(s.Classes) || s.ClassStats.DocCount != len(s.Classes) {
		return fmt.Errorf("%w: class corpus misaligned", types.ErrCacheCorrupt)
	}
	if meta != nil && (meta.TotalFunctions != len(s.Functions) || meta.TotalClasses != len(s.Classes)) {
		return fmt.Errorf("%w: counts differ from metadata", types.ErrCacheCorrupt)
	}
	return nil
}

// checkSchema accepts any version with the same major as SnapshotSchemaVersion
func checkSchema(version string) error {
	current := semver.MustParse(SnapshotSchemaVersion)
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: invalid schema version %q", ErrSchemaMismatch, version)
	}
	if v.Major() != current.Major() {
		return fmt.Errorf("%w: cache %s, expected %d.x", ErrSchemaMismatch, v, current.Major())
	}
	return nil
}

// Open creates the store for backend inside dir, creating dir if needed
func Open(backend, dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	switch backend {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
