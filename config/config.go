package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	StoreMap  StoreMapConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds text-generation API configuration
type LLMConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Temperature       float64       `mapstructure:"temperature"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxOutputTokens   int           `mapstructure:"max_output_tokens"` // 0 = no cap
}

// CatalogConfig holds product catalog configuration
type CatalogConfig struct {
	Type        string `mapstructure:"type"` // "memory", "mongo" or "postgres"
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	Collection  string `mapstructure:"collection"`
	Table       string `mapstructure:"table"`
	FixturePath string `mapstructure:"fixture_path"`
	Concurrency int    `mapstructure:"concurrency"`
}

// CacheConfig holds aisle color cache configuration
type CacheConfig struct {
	Type      string `mapstructure:"type"` // "memory" or "redis"
	RedisURL  string `mapstructure:"redis_url"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// StoreMapConfig holds store map configuration
type StoreMapConfig struct {
	CoordsPath string `mapstructure:"coords_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartshop/")

	// Environment variable settings: llm.api_key <- SMARTSHOP_LLM_API_KEY
	v.SetEnvPrefix("SMARTSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8501", "http://localhost:3000"})

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.5-pro")
	v.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.requests_per_minute", 60)
	v.SetDefault("llm.max_output_tokens", 0)

	// Catalog defaults
	v.SetDefault("catalog.type", "memory")
	v.SetDefault("catalog.uri", "")
	v.SetDefault("catalog.database", "store_db")
	v.SetDefault("catalog.collection", "products")
	v.SetDefault("catalog.table", "products")
	v.SetDefault("catalog.fixture_path", "data/products.json")
	v.SetDefault("catalog.concurrency", 4)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "smartshop:aisle_colors")

	// Store map defaults
	v.SetDefault("storemap.coords_path", "data/aisle_coords.json")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Type {
	case "memory":
		if config.Catalog.FixturePath == "" {
			return fmt.Errorf("catalog fixture path is required when catalog type is 'memory'")
		}
	case "mongo", "postgres":
		if config.Catalog.URI == "" {
			return fmt.Errorf("catalog URI is required when catalog type is '%s' (set SMARTSHOP_CATALOG_URI)", config.Catalog.Type)
		}
	default:
		return fmt.Errorf("catalog type must be 'memory', 'mongo' or 'postgres', got: %s", config.Catalog.Type)
	}

	if config.Catalog.Concurrency < 1 {
		return fmt.Errorf("catalog concurrency must be at least 1, got: %d", config.Catalog.Concurrency)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got: %s", config.LLM.Timeout)
	}

	if config.LLM.MaxOutputTokens < 0 {
		return fmt.Errorf("llm max output tokens cannot be negative, got: %d", config.LLM.MaxOutputTokens)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
