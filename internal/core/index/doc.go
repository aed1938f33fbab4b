// Package index holds the in-memory search index.
//
// An [Index] owns the current [Snapshot] behind an atomic pointer.
// Snapshots are immutable: readers load one and use it for the
// duration of a query, writers build a new one under a single mutex
// and publish it with a pointer swap. A query therefore never sees a
// half-applied update.
//
// The package also provides the tokenizer shared by the parser and
// the query engine, and [TermMatcher], which grades how well a query
// term matches an index token.
package index
