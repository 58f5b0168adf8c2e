// Package ratelimit provides the token-bucket gate in front of every
// outbound catalog API call.
//
// The remote catalog publishes a per-minute request quota. NewFromQuota
// derives the steady refill rate from that quota; the burst capacity allows
// short spikes (a screen appearing and firing a handful of lookups) without
// waiting. Under sustained load, callers queue implicitly by awaiting
// Acquire, which suspends until a token is granted.
//
// The bucket state is owned by a single internal serialization point, so
// concurrent acquirers never double-spend a token.
package ratelimit
