package domain

import (
	"os"
	"strconv"
	"strings"
)

// Config holds the complete ArthSathi configuration.
type Config struct {
	Server     ServerConfig     `json:"server"`
	Gemini     GeminiConfig     `json:"gemini"`
	Repository RepositoryConfig `json:"repository"`
	RateLimit  RateLimitConfig  `json:"rateLimit"`
	EventBus   EventBusConfig   `json:"eventBus"`
	Logging    LoggingConfig    `json:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"readTimeout"`  // seconds
	WriteTimeout int    `json:"writeTimeout"` // seconds
}

// GeminiConfig holds generative-model settings.
type GeminiConfig struct {
	APIKey         string `json:"-"`
	Model          string `json:"model"`
	RequestTimeout int    `json:"requestTimeout"` // seconds, per model call
}

// APIKeyPlaceholder is the sample value shipped in .env.example; a key equal
// to it counts as unconfigured.
const APIKeyPlaceholder = "your_gemini_api_key_here"

// RateLimitConfig holds settings for the per-client limiter guarding the
// model-backed endpoints.
type RateLimitConfig struct {
	Enabled           bool   `json:"enabled"`
	Backend           string `json:"backend"` // "memory" or "redis"
	RequestsPerMinute int    `json:"requestsPerMinute"`
	RedisAddr         string `json:"redisAddr"`
	RedisPassword     string `json:"-"`
	RedisDB           int    `json:"redisDb"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// DefaultConfig returns the configuration used when no environment
// overrides are present: in-process everything, no persistence.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3001,
			ReadTimeout:  30,
			WriteTimeout: 120,
		},
		Gemini: GeminiConfig{
			Model:          "gemini-1.5-flash",
			RequestTimeout: 60,
		},
		Repository: RepositoryConfig{
			Driver: "", // disabled: profiles are not persisted by default
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			Backend:           "memory",
			RequestsPerMinute: 30,
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// FromEnv builds a Config from defaults plus environment overrides.
// Call after any .env file has been loaded.
func FromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ARTHSATHI_HOST"); v != "" {
		cfg.Server.Host = v
	}

	cfg.Gemini.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Gemini.RequestTimeout = secs
		}
	}

	switch os.Getenv("ARTHSATHI_DB_DRIVER") {
	case "sqlite":
		cfg.Repository.Driver = "sqlite"
		cfg.Repository.SQLitePath = os.Getenv("ARTHSATHI_DB_PATH")
	case "postgres":
		cfg.Repository.Driver = "postgres"
		cfg.Repository.PostgresHost = os.Getenv("ARTHSATHI_PG_HOST")
		cfg.Repository.PostgresUser = os.Getenv("ARTHSATHI_PG_USER")
		cfg.Repository.PostgresPassword = os.Getenv("ARTHSATHI_PG_PASSWORD")
		cfg.Repository.PostgresDB = os.Getenv("ARTHSATHI_PG_DB")
		if v := os.Getenv("ARTHSATHI_PG_PORT"); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				cfg.Repository.PostgresPort = port
			}
		}
	}

	if v := os.Getenv("ARTHSATHI_RATE_LIMIT"); v != "" {
		if rpm, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.RequestsPerMinute = rpm
			cfg.RateLimit.Enabled = rpm > 0
		}
	}
	if v := os.Getenv("ARTHSATHI_REDIS_ADDR"); v != "" {
		cfg.RateLimit.Backend = "redis"
		cfg.RateLimit.RedisAddr = v
		cfg.RateLimit.RedisPassword = os.Getenv("ARTHSATHI_REDIS_PASSWORD")
		if db := os.Getenv("ARTHSATHI_REDIS_DB"); db != "" {
			if n, err := strconv.Atoi(db); err == nil {
				cfg.RateLimit.RedisDB = n
			}
		}
	}

	if v := os.Getenv("ARTHSATHI_NATS_URL"); v != "" {
		cfg.EventBus.Type = "nats"
		cfg.EventBus.NATSUrl = v
		cfg.EventBus.NATSToken = os.Getenv("ARTHSATHI_NATS_TOKEN")
	}

	if os.Getenv("ARTHSATHI_DEBUG") == "true" {
		cfg.Logging.Level = "debug"
	}

	return cfg
}
