// Package clickhouse provides a ClickHouse HTTP client for the injuries warehouse
package clickhouse

import (
	"errors"
	"os"
	"time"
)

// Static errors for configuration validation
var (
	ErrURLRequired      = errors.New("URL is required")
	ErrDatabaseRequired = errors.New("database is required")
)

// DatabasePrefixEnv is the environment variable prepended to logical database names
const DatabasePrefixEnv = "INJURYBOARD_DATABASE_PREFIX"

// Config contains ClickHouse connection settings
type Config struct {
	URL          string        `yaml:"url" validate:"required,url"`
	Database     string        `yaml:"database" default:"injuries"`
	QueryTimeout time.Duration `yaml:"queryTimeout"`
	Debug        bool          `yaml:"debug"`
	KeepAlive    time.Duration `yaml:"keepAlive"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrURLRequired
	}

	if c.Database == "" {
		return ErrDatabaseRequired
	}

	return nil
}

// SetDefaults sets default values for the configuration
func (c *Config) SetDefaults() {
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 30 * time.Second
	}

	if c.KeepAlive == 0 {
		c.KeepAlive = 30 * time.Second
	}
}

// MapDatabase maps a logical database name to a physical database name
// If INJURYBOARD_DATABASE_PREFIX env var is set, prepends it to the database name
// Otherwise returns the original name unchanged
func (c *Config) MapDatabase(logicalName string) string {
	if prefix := os.Getenv(DatabasePrefixEnv); prefix != "" {
		return prefix + logicalName
	}
	return logicalName
}
