// Package search resolves noisy record-sleeve metadata against the remote
// catalog.
//
// Lookups are cache-first with per-data-kind TTLs: search results live
// minutes, release details hours, price suggestions in between. Search
// queries are fingerprinted before keying so spelling-insignificant variants
// of the same query share one cache slot and coalesce into one remote call.
//
// Match ranks the catalog candidates for a set of extracted fields using the
// weighted scorer in core/match, best candidate first.
package search
