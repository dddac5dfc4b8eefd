// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// TourID selects the tour this process serves.
	TourID string `koanf:"tour_id"`

	// StoreDriver selects the edge store backend: memory, sqlite, postgres.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file when store_driver is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// PostgresDSN is the connection string when store_driver is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// RosterEncoding is the expected roster CSV charset: utf-8 or euc-kr.
	RosterEncoding string `koanf:"roster_encoding"`

	// PDFExport enables headless-browser tee-sheet PDF rendering.
	PDFExport bool `koanf:"pdf_export"`

	// HTTP timeouts, in seconds.
	ReadTimeoutSec  int `koanf:"read_timeout_sec"`
	WriteTimeoutSec int `koanf:"write_timeout_sec"`
	IdleTimeoutSec  int `koanf:"idle_timeout_sec"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8090",
		TourID:          "default",
		StoreDriver:     "sqlite",
		SQLitePath:      "singsing.db",
		RosterEncoding:  "utf-8",
		PDFExport:       false,
		ReadTimeoutSec:  10,
		WriteTimeoutSec: 30,
		IdleTimeoutSec:  60,
	}
}
