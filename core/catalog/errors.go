package catalog

import "errors"

// Error taxonomy for catalog API failures. Callers branch with errors.Is.
var (
	// ErrRateLimited means the remote returned 429 and the retry budget is
	// exhausted. Transient; the same operation can be retried later.
	ErrRateLimited = errors.New("catalog: rate limit exceeded")

	// ErrUnauthorized means the request was rejected for missing or invalid
	// credentials. Fatal to the operation; requires user action upstream.
	ErrUnauthorized = errors.New("catalog: unauthorized")

	// ErrNotFound means the requested resource does not exist remotely.
	// For membership lookups this is data, not a failure.
	ErrNotFound = errors.New("catalog: not found")

	// ErrNetworkUnavailable means the request never produced a response.
	// Cached and local data remain usable.
	ErrNetworkUnavailable = errors.New("catalog: network unavailable")

	// ErrMalformedResponse means the response body could not be decoded.
	// Nothing from such a response is ever applied to cache or storage.
	ErrMalformedResponse = errors.New("catalog: malformed response")
)
