// Package catalog holds the immutable, fully built API catalog and the
// handle through which the rest of the server obtains it.
package catalog

import (
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/bm25"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/corpus"
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// Catalog is the built state: entities, their corpora and one ranking index
// per entity kind. Index i of a corpus and of its ranking index always
// refers to entity i. A Catalog is never mutated after construction.
type Catalog struct {
	Functions []types.FunctionEntry
	Classes   []types.ClassEntry

	FunctionCorpus corpus.Corpus
	ClassCorpus    corpus.Corpus

	FunctionIndex *bm25.Index
	ClassIndex    *bm25.Index

	SourcePath      string
	SourceTimestamp float64
	CacheDir        string
	CacheBackend    string
}

// Stats summarizes the catalog
func (c *Catalog) Stats() types.CorpusStats {
	return types.CorpusStats{
		TotalFunctions: len(c.Functions),
		TotalClasses:   len(c.Classes),
		SourcePath:     c.SourcePath,
		CacheDir:       c.CacheDir,
		CacheBackend:   c.CacheBackend,
		IndexType:      types.IndexTypeBM25,
	}
}
