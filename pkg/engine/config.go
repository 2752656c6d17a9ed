// Package engine wires the injuries dashboard together
package engine

import (
	"fmt"

	"github.com/ethpandaops/injuryboard/pkg/api"
	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
	"github.com/ethpandaops/injuryboard/pkg/frontend"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/server"
	"github.com/ethpandaops/injuryboard/pkg/session"
)

// Config represents the complete engine configuration
type Config struct {
	// Core settings
	Logging string        `yaml:"logging" default:"info" validate:"oneof=panic fatal warn info debug trace"`
	Server  server.Config `yaml:",inline"`

	// Dependencies
	ClickHouse clickhouse.Config `yaml:"clickhouse"`

	// Dashboard queries
	Queries injuries.Config `yaml:"queries"`

	// Per-browser selection state
	Session session.Config `yaml:"session"`

	// API service configuration
	API api.Config `yaml:"api"`

	// Frontend service configuration
	Frontend frontend.Config `yaml:"frontend"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.ClickHouse.Validate(); err != nil {
		return fmt.Errorf("clickhouse: %w", err)
	}

	if err := c.Queries.Validate(); err != nil {
		return fmt.Errorf("queries: %w", err)
	}

	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if err := c.Frontend.Validate(); err != nil {
		return fmt.Errorf("frontend: %w", err)
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	return nil
}
