// Package server holds the HTTP server configuration.
//
// While the serve command handles the server startup, this package defines the
// configuration structure for server settings (listen port, API key).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings into the application configuration.
package server
