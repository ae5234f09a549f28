// Package corpus turns catalog entries into token documents for ranking.
//
// Identifiers (names, types) are split on "_", "." and uppercase letters and
// lowercased. Docstrings are only lowercased and split on whitespace. Queries
// go through the identifier splitter word by word so that "SpawnActor" and
// "spawn_actor" produce the same terms.
//
// The function and class corpora are built independently and stay aligned
// 1:1 with the entity lists they were built from.
package corpus
