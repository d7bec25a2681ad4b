package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		BotToken:           "test-token",
		BotWorkers:         2,
		BotQueue:           10,
		HealthPort:         "8080",
		HealthCheckEnabled: true,
		ScraperConfig: ScraperConfig{
			BaseURL:               "http://www.tmmoscow.ru",
			MaxConcurrentRequests: 10,
			RequestTimeout:        5 * time.Second,
		},
		MaxCompetitionsListLen: 10,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing bot token",
			modify:  func(c *Config) { c.BotToken = "" },
			wantErr: true,
		},
		{
			name:    "zero concurrency ceiling",
			modify:  func(c *Config) { c.ScraperConfig.MaxConcurrentRequests = 0 },
			wantErr: true,
		},
		{
			name:    "negative retries",
			modify:  func(c *Config) { c.ScraperConfig.RetryConfig.MaxRetries = -1 },
			wantErr: true,
		},
		{
			name:    "invalid health check port",
			modify:  func(c *Config) { c.HealthPort = "70000" },
			wantErr: true,
		},
		{
			name: "port ignored when health check disabled",
			modify: func(c *Config) {
				c.HealthCheckEnabled = false
				c.HealthPort = ""
			},
			wantErr: false,
		},
		{
			name: "rate limit without window",
			modify: func(c *Config) {
				c.RateLimitEnabled = true
				c.RateLimitRequests = 5
			},
			wantErr: true,
		},
		{
			name:    "empty list",
			modify:  func(c *Config) { c.MaxCompetitionsListLen = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modify(config)
			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing required env var", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "test-token")
		config, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-token", config.BotToken)
		assert.False(t, config.StorageEnabled())
		assert.Equal(t, "http://www.tmmoscow.ru", config.ScraperConfig.BaseURL)
		assert.Equal(t, 10, config.ScraperConfig.MaxConcurrentRequests)
		assert.Equal(t, 5*time.Second, config.ScraperConfig.RequestTimeout)
		assert.Equal(t, 0, config.ScraperConfig.RetryConfig.MaxRetries)
		assert.Equal(t, 10, config.MaxCompetitionsListLen)
		assert.Equal(t, "walking", config.DefaultDistanceCategory)
		assert.True(t, config.RateLimitEnabled)
		assert.Equal(t, time.Minute, config.RateLimitWindow)
		assert.Equal(t, 5*time.Minute, config.CommandCacheTTL)
		assert.Equal(t, 3*time.Second, config.DebounceTimeout)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "test-token")
		t.Setenv("DB_DSN", "postgres://localhost/tmmoscow")
		t.Setenv("SCRAPER_MAX_CONCURRENT_REQUESTS", "3")
		t.Setenv("SCRAPER_REQUEST_TIMEOUT", "750ms")
		t.Setenv("RETRY_MAX_RETRIES", "not-a-number")
		config, err := Load()
		require.NoError(t, err)

		assert.True(t, config.StorageEnabled())
		assert.Equal(t, 3, config.ScraperConfig.MaxConcurrentRequests)
		assert.Equal(t, 750*time.Millisecond, config.ScraperConfig.RequestTimeout)
		// неразбираемое значение заменяется значением по умолчанию
		assert.Equal(t, 0, config.ScraperConfig.RetryConfig.MaxRetries)
	})
}

func TestConfig_Location(t *testing.T) {
	config := &Config{Timezone: "UTC"}
	loc, err := config.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	config.Timezone = "Mars/Olympus"
	_, err = config.Location()
	assert.Error(t, err)
}
