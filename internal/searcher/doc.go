// Package searcher answers keyword queries against the API catalog.
//
// Queries are tokenized the same way entity names are (camel case and
// snake case split, lowercased) and scored with BM25 against the function
// corpus, the class corpus, or both.
//
// # Basic Usage
//
//	s := searcher.New(handle, searcher.WithLogger(logger))
//
//	results, err := s.SearchFormatted(ctx, "spawn actor", 5, searcher.ScopeBoth)
//	for _, r := range results {
//	    fmt.Printf("[%s] %s (score: %.2f)\n", r.Category, r.Source, r.RelevanceScore)
//	}
//
// # Ranking
//
// With ScopeBoth the two score lists are merged by score, not interleaved.
// Sorting is stable: equal scores keep extraction order, and function hits
// precede class hits. Entries that share no term with the query score zero
// but are still ranked, so a query returns min(topK, entries in scope)
// results even when nothing matches.
//
// # Categories
//
// SearchByCategory asks for three times topK hits across both corpora,
// keeps those of the requested category, and truncates. A category that is
// crowded out of the enlarged list can therefore return fewer results than
// exist.
//
// # Caching
//
// Hit lists are cached in an LRU keyed by the normalized query terms, topK
// and scope. The catalog never changes after loading, so entries never go
// stale.
//
// # Unavailable Catalog
//
// When the catalog cannot be loaded, search methods log the failure and
// return an empty list with a nil error; Stats returns
// types.ErrIndexUninitialized.
package searcher
