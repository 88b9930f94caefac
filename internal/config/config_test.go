package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:               "8000",
		Env:                "development",
		DBDriver:           "sqlite",
		SessionSecret:      "secure-secret-at-least-32-chars-long",
		SessionTTLHours:    24,
		CodeTTLSeconds:     120,
		CodeLength:         5,
		TracingSampleRatio: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing secret", func(c *Config) { c.SessionSecret = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"zero ttl", func(c *Config) { c.CodeTTLSeconds = 0 }, true},
		{"short code", func(c *Config) { c.CodeLength = 3 }, true},
		{"bad sample ratio", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"production default secret", func(c *Config) {
			c.Env = "production"
			c.SessionSecret = defaultSessionSecret
		}, true},
		{"production short secret", func(c *Config) {
			c.Env = "prod"
			c.SessionSecret = "short"
		}, true},
		{"production postgres weak password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBPassword = "password"
		}, true},
		{"production mail dry run", func(c *Config) {
			c.Env = "production"
			c.MailDryRun = true
		}, true},
		{"staging mail dry run", func(c *Config) {
			c.Env = "staging"
			c.MailDryRun = true
		}, false},
		{"production postgres strong password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = "postgres"
			c.DBPassword = "a-much-better-password"
			c.DBSSLMode = "require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	defer viper.Reset()

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 120, c.CodeTTLSeconds)
	assert.Equal(t, 5, c.CodeLength)
	assert.True(t, c.AllowSelfReply)
	assert.False(t, c.SingleAcceptedReply)
	assert.Equal(t, "sqlite", c.DBDriver)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("CODE_TTL_SECONDS", "60")
	t.Setenv("DB_DRIVER", "  SQLITE ")
	t.Setenv("SINGLE_ACCEPTED_REPLY", "true")
	defer viper.Reset()

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 60, c.CodeTTLSeconds)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.True(t, c.SingleAcceptedReply)
}

func TestConfig_PostgresDSN(t *testing.T) {
	c := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "board", DBSSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=board sslmode=require", c.PostgresDSN())
}
