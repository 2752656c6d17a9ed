package clickhouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapDatabase(t *testing.T) {
	c := &Config{}

	// Test without prefix
	t.Setenv(DatabasePrefixEnv, "")

	result := c.MapDatabase("injuries")
	if result != "injuries" {
		t.Errorf("MapDatabase without prefix: expected 'injuries', got '%s'", result)
	}

	// Test with prefix
	t.Setenv(DatabasePrefixEnv, "test_123_")

	result = c.MapDatabase("injuries")
	if result != "test_123_injuries" {
		t.Errorf("MapDatabase with prefix: expected 'test_123_injuries', got '%s'", result)
	}

	// Test empty database name
	result = c.MapDatabase("")
	if result != "test_123_" {
		t.Errorf("MapDatabase with empty name: expected 'test_123_', got '%s'", result)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:   "valid HTTP URL",
			config: Config{URL: "http://localhost:8123", Database: "injuries"},
		},
		{
			name:   "valid HTTPS URL",
			config: Config{URL: "https://localhost:8443", Database: "injuries"},
		},
		{
			name:    "missing URL",
			config:  Config{Database: "injuries"},
			wantErr: ErrURLRequired,
		},
		{
			name:    "missing database",
			config:  Config{URL: "http://localhost:8123"},
			wantErr: ErrDatabaseRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	config := Config{URL: "http://localhost:8123"}
	config.SetDefaults()

	assert.Equal(t, 30*time.Second, config.QueryTimeout)
	assert.Equal(t, 30*time.Second, config.KeepAlive)

	custom := Config{URL: "http://localhost:8123", QueryTimeout: 5 * time.Second, KeepAlive: time.Minute}
	custom.SetDefaults()

	assert.Equal(t, 5*time.Second, custom.QueryTimeout)
	assert.Equal(t, time.Minute, custom.KeepAlive)
}
