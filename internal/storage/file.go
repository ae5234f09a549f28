package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// File names inside the cache directory
const (
	SnapshotFileName = "api_index.bin"
	MetadataFileName = "metadata.json"
)

// FileStore keeps the snapshot blob and its JSON metadata side by side in a
// directory
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) snapshotPath() string { return filepath.Join(s.dir, SnapshotFileName) }
func (s *FileStore) metadataPath() string { return filepath.Join(s.dir, MetadataFileName) }

// ReadMetadata implements Store
func (s *FileStore) ReadMetadata(ctx context.Context) (*Metadata, error) {
	data, err := os.ReadFile(s.metadataPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return &meta, nil
}

// ReadSnapshot implements Store
func (s *FileStore) ReadSnapshot(ctx context.Context, meta *Metadata) (*Snapshot, error) {
	if err := checkSchema(meta.SchemaVersion); err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(s.snapshotPath())
	if errors.Is(err, fs.ErrNotExist) {
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

// Write implements Store. The snapshot is written before the metadata, each
// through a temporary file and a rename, so a reader never sees metadata
// pointing at a partial blob.
func (s *FileStore) Write(ctx context.Context, snap *Snapshot, meta *Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	blob, err := sealSnapshot(snap, meta)
	if err != nil {
		return err
	}
	if meta.BuiltAt.IsZero() {
		meta.BuiltAt = time.Now().UTC()
	}

	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := writeFileAtomic(s.snapshotPath(), blob); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := writeFileAtomic(s.metadataPath(), metaJSON); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// Location implements Store
func (s *FileStore) Location() string {
	return s.dir
}

// Backend implements Store
func (s *FileStore) Backend() string {
	return BackendFile
}

// Close implements Store
func (s *FileStore) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
