package database

// Config holds configuration for the local persistence store.
type Config struct {
	// Path is the SQLite database file path. ":memory:" creates an
	// ephemeral in-memory store (used by tests).
	Path string `mapstructure:"path" default:"vinyl-scout.db"`
	// BusyTimeoutMS is the SQLite busy timeout in milliseconds.
	BusyTimeoutMS int `mapstructure:"busy_timeout_ms" default:"5000"`
}
