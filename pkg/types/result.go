package types

import "fmt"

// SearchResult is a single formatted hit returned to callers
type SearchResult struct {
	Content        string   `json:"content"`
	Source         string   `json:"source"` // Entity name
	Category       Category `json:"category"`
	RelevanceScore float64  `json:"relevance_score"`
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.Source == "" {
		return ErrEmptyName
	}
	if sr.Category != CategoryFunction && sr.Category != CategoryClass {
		return fmt.Errorf("unknown category %q", sr.Category)
	}
	if sr.RelevanceScore < 0 {
		return ErrInvalidRelevanceScore
	}
	if sr.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// CorpusStats summarizes the loaded catalog
type CorpusStats struct {
	TotalFunctions int    `json:"total_functions"`
	TotalClasses   int    `json:"total_classes"`
	SourcePath     string `json:"stub_path"`
	CacheDir       string `json:"cache_dir"`
	CacheBackend   string `json:"cache_backend"`
	IndexType      string `json:"index_type"`
}

// IndexTypeBM25 is the only ranking scheme the catalog uses
const IndexTypeBM25 = "BM25"
