// Package database handles the local persistence store.
//
// It provides a wrapper around GORM to configure the embedded SQLite store
// that holds the offline view of a user's library (entries and per-list sync
// state). SQLite is opened in WAL mode with a single writer connection so the
// sync orchestrators and optimistic mutations never contend on file locks.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
