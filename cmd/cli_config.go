package cmd

import (
	"errors"
	"os"

	"github.com/creasty/defaults"
	"github.com/ethpandaops/injuryboard/pkg/engine"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ClickHouseURLEnv overrides clickhouse.url so credentials can stay out of the
// config file
const ClickHouseURLEnv = "INJURYBOARD_CLICKHOUSE_URL"

// LoadConfig loads the configuration from a YAML file. A missing file leaves the
// defaults in place. envPath is a dotenv file read before the environment
// overrides are applied; it may be empty or missing.
func LoadConfig(path, envPath string) (*engine.Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	config := &engine.Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	// Try to read the file, but allow it to not exist
	yamlFile, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if err == nil {
		if err := yaml.Unmarshal(yamlFile, config); err != nil {
			return nil, err
		}
	}

	if envPath != "" {
		// Variables already set in the environment win over the file
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if url := os.Getenv(ClickHouseURLEnv); url != "" {
		config.ClickHouse.URL = url
	}

	return config, nil
}
