//go:build purego || !cgo_sqlite

package storage

// This file is compiled by default or with the purego tag. The sqlite cache
// backend then uses a pure Go SQLite implementation. The rest of the module
// still requires cgo for tree-sitter.
//
// Build command:
//   go build ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
