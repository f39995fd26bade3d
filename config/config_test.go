package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"LLM_PROVIDER", "LLM_MODEL", "LLM_RETRIES", "SERVER_ADDR", "TZ_NAME",
		"MARKER_BACKEND", "REDIS_URL", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ServerAddr)
	require.Equal(t, "gemini", cfg.LLM.Provider)
	require.True(t, cfg.Schedule.Enabled)
	require.Equal(t, "psych_update", cfg.Schedule.KeyPrefix)
	require.Equal(t, time.Minute, cfg.ScheduleInterval())
	require.Equal(t, time.Duration(0), cfg.LLMTimeout())
	require.NoError(t, validate(cfg))
}

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Markers.Backend)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_addr: ":9090"
llm:
  provider: openai
  model: gpt-4o-mini
  retries: 2
  timeout: 30s
markers:
  backend: memory
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ServerAddr)
	require.Equal(t, "openai", cfg.LLM.Provider)
	require.Equal(t, 2, cfg.LLM.Retries)
	require.Equal(t, 30*time.Second, cfg.LLMTimeout())
	require.Equal(t, "memory", cfg.Markers.Backend)
	// untouched keys keep their defaults
	require.Equal(t, "Asia/Tokyo", cfg.Timezone)
	require.Equal(t, "psych_update", cfg.Schedule.KeyPrefix)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("API_KEY", "generic")
	t.Setenv("ANTHROPIC_API_KEY", "specific")
	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("TZ_NAME", "UTC")
	t.Setenv("MARKER_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LLM_RETRIES", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, "anthropic", cfg.LLM.Provider)
	require.Equal(t, "specific", cfg.LLM.APIKey)
	require.Equal(t, ":7000", cfg.ServerAddr)
	require.Equal(t, "redis", cfg.Markers.Backend)
	require.Equal(t, 3, cfg.LLM.Retries)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())
}

func TestGenericAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "generic")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.Equal(t, "generic", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "palm" }},
		{"missing provider", func(c *Config) { c.LLM.Provider = "" }},
		{"deepseek without base url", func(c *Config) { c.LLM.Provider = "deepseek" }},
		{"negative retries", func(c *Config) { c.LLM.Retries = -1 }},
		{"bad timeout", func(c *Config) { c.LLM.Timeout = "soon" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"unknown marker backend", func(c *Config) { c.Markers.Backend = "etcd" }},
		{"redis without url", func(c *Config) { c.Markers.Backend = "redis" }},
		{"bad feed scheme", func(c *Config) { c.Trending.FeedURL = "ftp://example.com/rss" }},
		{"kafka without topic", func(c *Config) {
			c.Archive.KafkaBrokers = []string{"kafka:9092"}
			c.Archive.KafkaTopic = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadDefaults()
			require.NoError(t, err)
			tt.mutate(cfg)
			require.Error(t, validate(cfg))
		})
	}
}

func TestMarkerStorePath(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, MarkerPath(), cfg.MarkerStorePath())
	cfg.Markers.Path = "/tmp/m.db"
	require.Equal(t, "/tmp/m.db", cfg.MarkerStorePath())
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Config{Schedule: Schedule{Interval: "bogus"}, Trending: Trending{TTL: ""}}
	require.Equal(t, time.Minute, cfg.ScheduleInterval())
	require.Equal(t, time.Hour, cfg.TrendingTTL())
}
