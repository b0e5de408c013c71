package config

import (
	"github.com/me/restkit/pkg/pagination"
)

// Config holds runtime configuration for the ledger server.
type Config struct {
	Addr        string `koanf:"addr"`          // Listen address (default ":8080")
	LogLevel    string `koanf:"log_level"`     // Log level: debug, info, warn, error
	LogFormat   string `koanf:"log_format"`    // Log format: text, json
	DBPath      string `koanf:"db_path"`       // SQLite database path (":memory:" for testing)
	PageSize    int    `koanf:"page_size"`     // Default page size for paginated listings
	MaxPageSize int    `koanf:"max_page_size"` // Upper bound on client-requested page sizes
	Ordering    string `koanf:"ordering"`      // Default ordering for cursor listings
	Passthrough bool   `koanf:"passthrough"`   // Return full collections when no pagination params are sent
	DocsDir     string `koanf:"docs_dir"`      // Directory of schema documentation overrides ("" disables)
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Addr:        ":8080",
		LogLevel:    "info",
		LogFormat:   "text",
		DBPath:      "restkit.db",
		PageSize:    pagination.DefaultPageSize,
		MaxPageSize: pagination.MaxPageSize,
		Ordering:    "-created",
	}
}
