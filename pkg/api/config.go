// Package api provides the REST API of the injuries dashboard and serves the
// embedded frontend.
package api

import "errors"

// ErrAPIAddrRequired is returned when no listen address is configured
var (
	ErrAPIAddrRequired = errors.New("api address is required")
)

// Config represents API service configuration
type Config struct {
	Addr string `yaml:"addr" default:":8080" validate:"hostname_port"`
	// AllowOrigins lists the origins allowed to read the API cross-origin
	AllowOrigins []string `yaml:"allowOrigins" default:"[\"*\"]"`
}

// Validate validates the API configuration
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrAPIAddrRequired
	}
	return nil
}
