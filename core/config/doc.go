// Package config provides configuration management for vinyl-scout.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file loaded via godotenv.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: local HTTP surface (port, API key)
//   - Catalog: remote catalog API (base URL, token, username, rate quota)
//   - Cache: per-data-kind TTLs
//   - Sync: library synchronizer (staleness threshold, page size)
//   - Database: local SQLite store path
//   - Log: logging level and format
//
// Defaults come from `default` struct tags, bound recursively via
// reflection; environment variables override using underscore-separated
// nested keys (CATALOG_TOKEN -> catalog.token).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.BaseURL)
package config
