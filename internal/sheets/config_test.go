package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(*Config)) Config {
		c := DefaultConfig()
		c.ClientID = "test-client"
		c.ClientSecret = "test-secret"
		c.RefreshToken = "test-token"
		mutate(&c)
		return c
	}

	tests := []struct {
		name   string
		errMsg string
		config Config
	}{
		{
			name:   "valid oauth config",
			config: valid(func(*Config) {}),
		},
		{
			name: "oauth with token file",
			config: valid(func(c *Config) {
				c.RefreshToken = ""
				c.TokenFile = "/tmp/token.json"
			}),
		},
		{
			name: "valid service account config",
			config: valid(func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "", "", ""
				c.ServiceAccountPath = "/path/to/key.json"
			}),
		},
		{
			name: "missing auth",
			config: valid(func(c *Config) {
				c.RefreshToken = ""
			}),
			errMsg: "no authentication method configured",
		},
		{
			name: "multiple auth methods",
			config: valid(func(c *Config) {
				c.ServiceAccountPath = "/path/to/key.json"
			}),
			errMsg: "multiple authentication methods configured",
		},
		{
			name: "no spreadsheet target",
			config: valid(func(c *Config) {
				c.SpreadsheetName = ""
			}),
			errMsg: "spreadsheet id or name is required",
		},
		{
			name: "missing sheet name",
			config: valid(func(c *Config) {
				c.SheetName = ""
			}),
			errMsg: "sheet name is required",
		},
		{
			name: "invalid batch size",
			config: valid(func(c *Config) {
				c.BatchSize = 0
			}),
			errMsg: "batch size must be positive",
		},
		{
			name: "negative retry attempts",
			config: valid(func(c *Config) {
				c.RetryAttempts = -1
			}),
			errMsg: "retry attempts cannot be negative",
		},
		{
			name: "negative retry delay",
			config: valid(func(c *Config) {
				c.RetryDelay = -time.Second
			}),
			errMsg: "retry delay cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
