package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:        "development",
		Port:       "8080",
		JWTSecret:  "secure-secret-at-least-32-chars-long",
		DBPassword: "secure-password",
		DBSSLMode:  "require",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing port", func(c *Config) { c.Port = "" }, "PORT"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"bad schema mode", func(c *Config) { c.DBSchemaMode = "hybrid" }, "DB_SCHEMA_MODE"},
		{"relative webhook", func(c *Config) { c.WebhookURL = "/hooks/abc" }, "WEBHOOK_URL"},
		{"ftp webhook", func(c *Config) { c.WebhookURL = "ftp://chat.example.com/hook" }, "WEBHOOK_URL"},
		{"rss author not uuid", func(c *Config) { c.RSSAuthorID = "bot" }, "RSS_AUTHOR_ID"},
		{"dev admin not uuid", func(c *Config) { c.DevAdminID = "root" }, "DEV_ADMIN_ID"},
		{"default secret in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, "default value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("valid webhook and author", func(t *testing.T) {
		c := validConfig()
		c.WebhookURL = "https://chat.example.com/v1/spaces/abc/messages?key=k"
		c.RSSAuthorID = "2b1c7f3e-52c4-4a0e-9f0a-8f5d3c1c0b11"
		assert.NoError(t, c.Validate())
	})
}

func TestLoadConfig_Normalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("APP_BASE_URL")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("APP_BASE_URL", "https://share.example.com/")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "https://share.example.com", c.AppBaseURL)
	assert.Equal(t, "auto", c.DBSchemaMode)
	assert.Equal(t, 30, c.RSSMaxItemsPerFeed)
}
