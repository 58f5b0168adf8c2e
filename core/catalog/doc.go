// Package catalog is the client for the remote vinyl catalog API: release
// search, release details, marketplace price suggestions, and per-user
// collection/wantlist membership and mutation.
//
// # Governance
//
// Every outbound call acquires a token from the shared rate limiter before
// dialing. HTTP 429 responses are retried with exponential backoff
// (1s, 2s, 4s, 8s, 16s) honoring Retry-After; other failures map onto a
// small error taxonomy (ErrUnauthorized, ErrNotFound, ErrNetworkUnavailable,
// ErrMalformedResponse, ErrRateLimited) that callers branch on with
// errors.Is.
//
// # Circuit breaker
//
// BreakerClient wraps any Client so a failing upstream is probed instead of
// hammered. Expected conditions (404, bad credentials) never trip it.
//
// # Retry safety
//
// All operations are idempotent-safe to retry except the paged listings,
// which must re-request the same page number so pages are never skipped or
// duplicated.
package catalog
