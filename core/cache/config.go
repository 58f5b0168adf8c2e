package cache

import "time"

// Config holds the per-data-kind TTLs. Values reflect volatility: release
// metadata is effectively static, marketplace prices drift slowly, search
// results and membership status change via user action.
type Config struct {
	// SearchTTLMinutes is the TTL for catalog search results.
	SearchTTLMinutes int `mapstructure:"search_ttl_minutes" default:"10"`
	// ReleaseTTLHours is the TTL for release detail records.
	ReleaseTTLHours int `mapstructure:"release_ttl_hours" default:"24"`
	// PriceTTLHours is the TTL for marketplace price suggestions.
	PriceTTLHours int `mapstructure:"price_ttl_hours" default:"6"`
	// StatusTTLMinutes is the TTL for collection/wantlist membership status.
	StatusTTLMinutes int `mapstructure:"status_ttl_minutes" default:"5"`
}

func (c Config) SearchTTL() time.Duration {
	return time.Duration(c.SearchTTLMinutes) * time.Minute
}

func (c Config) ReleaseTTL() time.Duration {
	return time.Duration(c.ReleaseTTLHours) * time.Hour
}

func (c Config) PriceTTL() time.Duration {
	return time.Duration(c.PriceTTLHours) * time.Hour
}

func (c Config) StatusTTL() time.Duration {
	return time.Duration(c.StatusTTLMinutes) * time.Minute
}
