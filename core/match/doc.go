// Package match scores catalog search candidates against noisy extracted
// metadata.
//
// The scorer is a pure function: no network, no shared state. Each field
// pair (artist, album, catalog number, label, year) gets a similarity in
// [0,1] from exact match, substring containment, or normalized edit
// distance, combined as a weighted sum. Fields absent on one side are penalized;
// fields absent on both sides are excluded with the remaining weights
// rescaled.
//
// Rank sorts candidates best-first with deterministic tie-breaking:
// catalog-number similarity first, then the source API's original ordering.
package match
