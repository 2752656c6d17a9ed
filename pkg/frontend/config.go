package frontend

// Config represents frontend configuration. The frontend is served by the API
// server as the fallback for every non-API path.
type Config struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// Validate validates the frontend configuration
func (c *Config) Validate() error {
	return nil
}
