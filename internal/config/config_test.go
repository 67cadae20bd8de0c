package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "US", cfg.TMDB.Region)
	assert.Equal(t, 6*time.Hour, cfg.TMDB.CacheTTL)
	assert.Equal(t, 10, cfg.Recommend.RatePerMinute)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:watchly.db")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TMDB_TIMEOUT", "3s")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:watchly.db", cfg.Database.URL)
	assert.Equal(t, 3*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "ak-test", cfg.LLMAPIKey())
	assert.Equal(t, "Anthropic", cfg.LLMProviderName())
}

func TestLoadLegacyOpenAIKey(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_KEY", "sk-legacy")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, "sk-legacy", cfg.LLMAPIKey())
	assert.Equal(t, "OpenAI", cfg.LLMProviderName())
}

func TestLoadYAMLFile(t *testing.T) {
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "watchly.yaml")
	content := "server:\n  port: 7070\ntmdb:\n  region: GB\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "GB", cfg.TMDB.Region)
}

func TestBlankEnvKeepsDefault(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("PORT", "")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.Driver = "mysql"

	err := cfg.Validate()

	assert.NotEqual(t, nil, err)
}
