// Package indexer turns the Unreal stub file into a ready-to-query catalog,
// reusing a persisted index whenever the stub has not changed.
//
// # Basic Usage
//
//	store, _ := storage.Open(storage.BackendFile, cacheDir)
//	idx := indexer.New(store, indexer.WithLogger(logger))
//
//	cat, stats, err := idx.LoadOrBuild(ctx, "/path/to/unreal.py")
//	fmt.Printf("%s: %d functions, %d classes in %v\n",
//	    stats.Source, stats.FunctionsIndexed, stats.ClassesIndexed, stats.Duration)
//
// # Cache Validation
//
// The cache key is the stub's modification time in fractional seconds. The
// stored metadata records the timestamp the snapshot was built from; the
// snapshot is only decoded when the two are equal. There is no content
// hashing of the stub itself: touching the file forces a rebuild.
//
// A cache that exists but cannot be used (checksum mismatch, incompatible
// schema, misaligned corpora) is logged as a warning and rebuilt. Only a
// missing stub or a stub with syntax errors fails LoadOrBuild.
//
// # Build Pipeline
//
//  1. Parse: sanitize the stub and extract classes, functions and methods
//  2. Corpus: tokenize one document per function and per class
//  3. Rank: compute BM25 statistics for each corpus
//  4. Persist: write the snapshot and its metadata to the store
//
// Steps 2 and 3 run for the function and class corpora concurrently. A
// restored index is rebuilt from the persisted statistics alone, so it
// scores identically to the index that was saved.
//
// # Concurrency
//
// An Indexer runs one build at a time. A call made while another is running
// fails with types.ErrBuildInProgress instead of waiting; callers that want
// to share a single build should go through catalog.Handle.
package indexer
