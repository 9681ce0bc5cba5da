package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		JWTTTLHours:        168,
		Port:               "8080",
		DBDriver:           "postgres",
		DBPassword:         "secure-password",
		DBSSLMode:          "require",
		DBSchemaMode:       "hybrid",
		TracingSampleRatio: 1,
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
		{"Prod with empty SSL mode", "prod", "", true},
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
		mutate func(c *Config)
		errMsg string
	}{
		{"Missing port", func(c *Config) { c.Port = "" }, "PORT is required"},
		{"Missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"Negative TTL", func(c *Config) { c.JWTTTLHours = -1 }, "JWT_TTL_HOURS"},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"Unknown schema mode", func(c *Config) { c.DBSchemaMode = "manual" }, "DB_SCHEMA_MODE"},
		{"Sample ratio out of range", func(c *Config) { c.TracingSampleRatio = 1.5 }, "TRACING_SAMPLE_RATIO"},
		{"Default secret in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, "changed from the default"},
		{"Short secret in production", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, "at least 32 characters"},
		{"Weak DB password in production", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, "DB_PASSWORD"},
		{"SQLite in production", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "sqlite"
		}, "sqlite"},
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

	t.Run("Short secret allowed outside production", func(t *testing.T) {
		c := validConfig()
		c.Env = "development"
		c.JWTSecret = "short"
		assert.NoError(t, c.Validate())
	})
}

func TestConfig_TokenTTL(t *testing.T) {
	c := validConfig()
	assert.Equal(t, 168*time.Hour, c.TokenTTL())

	c.JWTTTLHours = 0
	assert.Equal(t, time.Duration(0), c.TokenTTL())
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "8375", c.Port)
	assert.Equal(t, 168, c.JWTTTLHours)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, "hybrid", c.DBSchemaMode)
	assert.False(t, c.TracingEnabled)
}

func TestLoadConfig_MissingProfile(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "staging-without-file")

	_, err := LoadConfig()
	assert.Error(t, err)
}
