//go:build cgo_sqlite && !purego

package storage

// This file is compiled when building with CGO and the cgo_sqlite tag.
// The sqlite cache backend then uses the C SQLite library.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "cgo_sqlite" ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
