package catalog

// Config holds configuration for the remote catalog API client.
type Config struct {
	// BaseURL is the root URL of the catalog API.
	BaseURL string `mapstructure:"base_url" default:"https://api.discogs.com"`
	// Token is the personal access token for authenticated calls.
	// The client consumes a supplied identity; acquisition happens upstream.
	Token string `mapstructure:"token" default:""`
	// Username is the catalog account whose collection/wantlist is synced.
	Username string `mapstructure:"username" default:""`
	// UserAgent identifies this client to the remote API.
	UserAgent string `mapstructure:"user_agent" default:"vinyl-scout/1.0"`
	// QuotaPerMinute is the remote API's published per-minute request quota.
	QuotaPerMinute int `mapstructure:"quota_per_minute" default:"60"`
	// Burst is the token bucket capacity (allowed request burst).
	Burst int `mapstructure:"burst" default:"5"`
	// TimeoutSeconds is the per-request HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries caps retries on HTTP 429 responses.
	MaxRetries int `mapstructure:"max_retries" default:"5"`
}
