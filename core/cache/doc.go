// Package cache provides a generic TTL cache with in-flight request
// coalescing.
//
// One Store instance holds one kind of data (search results, release
// details, price suggestions, membership status), each with its own TTL.
// A read for a fresh entry costs zero network calls. A miss triggers exactly
// one fetch per key; N concurrent readers for the same key share that fetch's
// result via singleflight. Fetch errors reach every awaiter and are never
// cached.
//
// # Cancellation
//
// Cancellation is per-observer, not per-fetch. The shared fetch runs under a
// detached context, so a caller abandoning its wait does not cancel the fetch
// for the remaining awaiters; the result still lands in the store.
//
// # Keys
//
// Keys are normalized request fingerprints. Normalize canonicalizes free-text
// queries (lower-case, collapsed whitespace) so trivially different spellings
// of the same query share an entry.
package cache
