// Package bm25 implements Okapi BM25 ranking over pre-tokenized documents.
//
// An Index is built once from a corpus and is immutable thereafter, so it is
// safe for concurrent reads. Only the raw corpus statistics (Stats) are meant
// to be persisted; FromStats rebuilds an equivalent index from them without
// re-tokenizing anything.
package bm25

import (
	"errors"
	"fmt"
	"math"
)

// Default BM25 parameters.
const (
	DefaultK1 = 1.5
	DefaultB  = 0.75
)

// Params are the BM25 free parameters. K1 controls term frequency
// saturation; B controls document length normalization.
type Params struct {
	K1 float64 `json:"k1" yaml:"k1"`
	B  float64 `json:"b" yaml:"b"`
}

// DefaultParams returns k1 = 1.5, b = 0.75.
func DefaultParams() Params {
	return Params{K1: DefaultK1, B: DefaultB}
}

// Validate checks that the parameters are in their meaningful ranges.
func (p Params) Validate() error {
	if p.K1 < 0 || math.IsNaN(p.K1) || math.IsInf(p.K1, 0) {
		return fmt.Errorf("bm25: k1 must be a non-negative number, got %v", p.K1)
	}
	if p.B < 0 || p.B > 1 || math.IsNaN(p.B) {
		return fmt.Errorf("bm25: b must be in [0, 1], got %v", p.B)
	}
	return nil
}

// Stats are the corpus statistics an index is computed from. They are the
// portable, serializable form of an index.
type Stats struct {
	// DocCount is the number of documents N.
	DocCount int `json:"doc_count"`

	// DocLengths[i] is the token count of document i.
	DocLengths []int `json:"doc_lengths"`

	// AvgDocLength is the mean of DocLengths.
	AvgDocLength float64 `json:"avg_doc_length"`

	// DocFreq[term] is the number of documents containing term.
	DocFreq map[string]int `json:"doc_freq"`

	// TermFreqs[i][term] is the frequency of term in document i.
	TermFreqs []map[string]int `json:"term_freqs"`
}

// ErrInconsistentStats is returned by FromStats when the statistics do not
// describe a single corpus.
var ErrInconsistentStats = errors.New("bm25: inconsistent statistics")

// Compute gathers the statistics of a corpus.
func Compute(corpus [][]string) Stats {
	stats := Stats{
		DocCount:   len(corpus),
		DocLengths: make([]int, len(corpus)),
		DocFreq:    make(map[string]int),
		TermFreqs:  make([]map[string]int, len(corpus)),
	}

	var totalLength int
	for i, document := range corpus {
		stats.DocLengths[i] = len(document)
		totalLength += len(document)

		termFrequency := make(map[string]int, len(document))
		for _, token := range document {
			termFrequency[token]++
		}
		for term := range termFrequency {
			stats.DocFreq[term]++
		}
		stats.TermFreqs[i] = termFrequency
	}

	if len(corpus) > 0 {
		stats.AvgDocLength = float64(totalLength) / float64(len(corpus))
	}
	return stats
}

// Index is a BM25 index over one corpus.
type Index struct {
	params Params
	stats  Stats

	// idf[term] is precomputed from stats.DocFreq.
	idf map[string]float64
}

// New builds an index over corpus.
func New(corpus [][]string, params Params) *Index {
	return newIndex(Compute(corpus), params)
}

// FromStats rebuilds an index from previously computed statistics.
func FromStats(stats Stats, params Params) (*Index, error) {
	if stats.DocCount != len(stats.DocLengths) || stats.DocCount != len(stats.TermFreqs) {
		return nil, fmt.Errorf("%w: %d documents, %d lengths, %d term maps",
			ErrInconsistentStats, stats.DocCount, len(stats.DocLengths), len(stats.TermFreqs))
	}
	if stats.DocFreq == nil {
		stats.DocFreq = make(map[string]int)
	}
	return newIndex(stats, params), nil
}

func newIndex(stats Stats, params Params) *Index {
	index := &Index{
		params: params,
		stats:  stats,
		idf:    make(map[string]float64, len(stats.DocFreq)),
	}

	documentCount := float64(stats.DocCount)
	for term, frequency := range stats.DocFreq {
		index.idf[term] = IDF(documentCount, float64(frequency))
	}
	return index
}

// IDF is the inverse document frequency ln((N - df + 0.5) / (df + 0.5) + 1).
// It is positive for every df in [0, N].
func IDF(documentCount, documentFrequency float64) float64 {
	return math.Log((documentCount-documentFrequency+0.5)/(documentFrequency+0.5) + 1)
}

// Len returns the number of indexed documents.
func (index *Index) Len() int {
	return index.stats.DocCount
}

// Params returns the parameters the index scores with.
func (index *Index) Params() Params {
	return index.params
}

// Stats returns the corpus statistics backing the index. The returned value
// shares maps with the index and must not be modified.
func (index *Index) Stats() Stats {
	return index.stats
}

// Scores returns one score per document, in document order. Each distinct
// query term is counted once; terms absent from the corpus contribute 0.
func (index *Index) Scores(queryTokens []string) []float64 {
	scores := make([]float64, index.stats.DocCount)

	seen := make(map[string]struct{}, len(queryTokens))
	for _, term := range queryTokens {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}

		idf, exists := index.idf[term]
		if !exists {
			continue
		}

		for i := range scores {
			scores[i] += index.termScore(i, term, idf)
		}
	}
	return scores
}

// Score returns the score of a single document.
func (index *Index) Score(documentIndex int, queryTokens []string) float64 {
	if documentIndex < 0 || documentIndex >= index.stats.DocCount {
		return 0
	}

	var score float64
	seen := make(map[string]struct{}, len(queryTokens))
	for _, term := range queryTokens {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}

		if idf, exists := index.idf[term]; exists {
			score += index.termScore(documentIndex, term, idf)
		}
	}
	return score
}

// termScore is IDF * tf * (k1 + 1) / (tf + k1 * (1 - b + b * dl/avgdl)).
func (index *Index) termScore(documentIndex int, term string, idf float64) float64 {
	frequency := float64(index.stats.TermFreqs[documentIndex][term])
	if frequency == 0 {
		return 0
	}

	lengthRatio := 0.0
	if index.stats.AvgDocLength > 0 {
		lengthRatio = float64(index.stats.DocLengths[documentIndex]) / index.stats.AvgDocLength
	}

	k1, b := index.params.K1, index.params.B
	numerator := frequency * (k1 + 1)
	denominator := frequency + k1*(1-b+b*lengthRatio)
	return idf * numerator / denominator
}
