// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Database, пустой DSN отключает хранилище
	DatabaseURL string

	// Telegram
	BotToken   string
	BotWorkers int
	BotQueue   int
	// AdminUsername пустое значение отключает служебные команды
	AdminUsername string

	// Ограничения бота
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CommandCacheTTL   time.Duration
	DebounceTimeout   time.Duration

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Logging
	LogLevel string

	// Timezone сайта для дат обновления и публикации
	Timezone string

	// App Data Directory
	AppDataDir string

	// Scraper
	ScraperConfig ScraperConfig

	// Выдача бота
	MaxCompetitionsListLen  int
	DefaultDistanceCategory string
}

// ScraperConfig представляет конфигурацию транспорта до сайта
type ScraperConfig struct {
	BaseURL               string
	MaxConcurrentRequests int
	RequestTimeout        time.Duration
	RequestDelay          time.Duration
	MaxBodySize           int
	HTTPClientConfig      HTTPClientConfig
	RetryConfig           RetryConfig
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:        getEnv("DB_DSN", ""),
		BotToken:           getEnv("BOT_TOKEN", ""),
		BotWorkers:         getEnvInt("BOT_WORKERS", 4),
		BotQueue:           getEnvInt("BOT_QUEUE_SIZE", 100),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		CommandCacheTTL:    getEnvDuration("COMMAND_CACHE_TTL", 5*time.Minute),
		DebounceTimeout:    getEnvDuration("DEBOUNCE_TIMEOUT", 3*time.Second),
		HealthPort:         getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("TIMEZONE", "Europe/Moscow"),
		AppDataDir:         getEnv("APP_DATA_DIR", "./data"),
		ScraperConfig: ScraperConfig{
			BaseURL:               getEnv("SITE_BASE_URL", "http://www.tmmoscow.ru"),
			MaxConcurrentRequests: getEnvInt("SCRAPER_MAX_CONCURRENT_REQUESTS", 10),
			RequestTimeout:        getEnvDuration("SCRAPER_REQUEST_TIMEOUT", 5*time.Second),
			RequestDelay:          getEnvDuration("SCRAPER_REQUEST_DELAY", 0),
			MaxBodySize:           getEnvInt("SCRAPER_MAX_BODY_SIZE", 20*1024*1024),
			HTTPClientConfig: HTTPClientConfig{
				MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
				MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
				IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
				TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
				ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
				DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
			},
			RetryConfig: RetryConfig{
				MaxRetries:        getEnvInt("RETRY_MAX_RETRIES", 0),
				InitialDelay:      getEnvDuration("RETRY_INITIAL_DELAY", 1*time.Second),
				MaxDelay:          getEnvDuration("RETRY_MAX_DELAY", 30*time.Second),
				BackoffMultiplier: getEnvFloat("RETRY_BACKOFF_MULTIPLIER", 2.0),
			},
		},
		MaxCompetitionsListLen:  getEnvInt("MAX_COMPETITIONS_LIST_LEN", 10),
		DefaultDistanceCategory: getEnv("DEFAULT_DISTANCE_CATEGORY", "walking"),
	}

	// Валидация обязательных полей
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// GetAppDataDir возвращает директорию данных приложения
func (c *Config) GetAppDataDir() string {
	return c.AppDataDir
}

// StorageEnabled сообщает, настроена ли база данных
func (c *Config) StorageEnabled() bool {
	return c.DatabaseURL != ""
}

// Location возвращает часовой пояс сайта
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.ScraperConfig.BaseURL == "" {
		return fmt.Errorf("SITE_BASE_URL is required")
	}

	if c.ScraperConfig.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("SCRAPER_MAX_CONCURRENT_REQUESTS must be positive, got %d", c.ScraperConfig.MaxConcurrentRequests)
	}

	if c.ScraperConfig.RequestTimeout <= 0 {
		return fmt.Errorf("SCRAPER_REQUEST_TIMEOUT must be positive, got %s", c.ScraperConfig.RequestTimeout)
	}

	if c.ScraperConfig.RetryConfig.MaxRetries < 0 {
		return fmt.Errorf("RETRY_MAX_RETRIES must not be negative, got %d", c.ScraperConfig.RetryConfig.MaxRetries)
	}

	if c.MaxCompetitionsListLen <= 0 {
		return fmt.Errorf("MAX_COMPETITIONS_LIST_LEN must be positive, got %d", c.MaxCompetitionsListLen)
	}

	if c.BotWorkers <= 0 || c.BotQueue <= 0 {
		return fmt.Errorf("BOT_WORKERS and BOT_QUEUE_SIZE must be positive")
	}

	if c.RateLimitEnabled && (c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}

	if c.HealthCheckEnabled {
		port, err := strconv.Atoi(c.HealthPort)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("HEALTH_PORT must be a port number, got %q", c.HealthPort)
		}
	}

	return nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
