package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	ConfigPathEnvVar  = "CONFIG_PATH"
	defaultConfigPath = "config.yaml"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	LLM       LLMConfig       `koanf:"llm"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Auth      AuthConfig      `koanf:"auth"`
	Recommend RecommendConfig `koanf:"recommend"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver      string `koanf:"driver"`
	URL         string `koanf:"url"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL string `koanf:"url"`
}

type LLMConfig struct {
	Provider        string        `koanf:"provider"`
	OpenAIAPIKey    string        `koanf:"openai_api_key"`
	AnthropicAPIKey string        `koanf:"anthropic_api_key"`
	Timeout         time.Duration `koanf:"timeout"`
}

type TMDBConfig struct {
	APIKey       string        `koanf:"api_key"`
	BaseURL      string        `koanf:"base_url"`
	ImageBaseURL string        `koanf:"image_base_url"`
	Region       string        `koanf:"region"`
	Timeout      time.Duration `koanf:"timeout"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type RecommendConfig struct {
	RatePerMinute int `koanf:"rate_per_minute"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      DriverPostgres,
			AutoMigrate: true,
		},
		LLM: LLMConfig{
			Provider: ProviderOpenAI,
			Timeout:  30 * time.Second,
		},
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Region:       "US",
			Timeout:      10 * time.Second,
			CacheTTL:     6 * time.Hour,
		},
		Recommend: RecommendConfig{
			RatePerMinute: 10,
		},
	}
}

// envMappings maps flat environment names onto config keys. Unlisted
// variables are ignored.
var envMappings = map[string]string{
	"port":                      "server.port",
	"shutdown_timeout":          "server.shutdown_timeout",
	"database_driver":           "database.driver",
	"database_url":              "database.url",
	"database_auto_migrate":     "database.auto_migrate",
	"redis_url":                 "redis.url",
	"llm_provider":              "llm.provider",
	"openai_api_key":            "llm.openai_api_key",
	"anthropic_api_key":         "llm.anthropic_api_key",
	"llm_timeout":               "llm.timeout",
	"tmdb_api_key":              "tmdb.api_key",
	"tmdb_base_url":             "tmdb.base_url",
	"tmdb_image_base_url":       "tmdb.image_base_url",
	"tmdb_region":               "tmdb.region",
	"tmdb_timeout":              "tmdb.timeout",
	"tmdb_cache_ttl":            "tmdb.cache_ttl",
	"jwt_secret":                "auth.jwt_secret",
	"recommend_rate_per_minute": "recommend.rate_per_minute",
}

// envTransformFunc drops unmapped and empty variables so a blank export
// never clobbers a default.
func envTransformFunc(key, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return envMappings[strings.ToLower(key)], value
}

// Load layers defaults, an optional yaml file and the environment, in that
// order.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// OPENAI_KEY is the name the hosted function used.
	if cfg.LLM.OpenAIAPIKey == "" {
		cfg.LLM.OpenAIAPIKey = os.Getenv("OPENAI_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver))
	}

	switch strings.ToLower(c.LLM.Provider) {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, c.LLM.Provider))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	if c.Recommend.RatePerMinute < 0 {
		errs = append(errs, fmt.Errorf("recommend.rate_per_minute must not be negative"))
	}

	return errors.Join(errs...)
}

// LLMAPIKey returns the credential for the selected provider, possibly empty.
func (c *Config) LLMAPIKey() string {
	if strings.ToLower(c.LLM.Provider) == ProviderAnthropic {
		return c.LLM.AnthropicAPIKey
	}
	return c.LLM.OpenAIAPIKey
}

// LLMProviderName is the display name used in error messages.
func (c *Config) LLMProviderName() string {
	if strings.ToLower(c.LLM.Provider) == ProviderAnthropic {
		return "Anthropic"
	}
	return "OpenAI"
}
