package library

import "time"

// SyncConfig holds configuration for the library synchronizer.
type SyncConfig struct {
	// StaleThresholdHours is the maximum age of a list's last full sync
	// before a background refresh is triggered on access.
	StaleThresholdHours int `mapstructure:"stale_threshold_hours" default:"24"`
	// PageSize is the number of items requested per listing page.
	PageSize int `mapstructure:"page_size" default:"50"`
}

func (c SyncConfig) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdHours) * time.Hour
}
