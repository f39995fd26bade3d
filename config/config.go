package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const appName = "psychstation"

type LLM struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	Retries  int    `yaml:"retries"`
}

type Schedule struct {
	Enabled   bool   `yaml:"enabled"`
	Interval  string `yaml:"interval"`
	KeyPrefix string `yaml:"key_prefix"`
}

type Markers struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
}

type Archive struct {
	ElasticsearchAddr  string   `yaml:"elasticsearch_addr"`
	ElasticsearchIndex string   `yaml:"elasticsearch_index"`
	KafkaBrokers       []string `yaml:"kafka_brokers"`
	KafkaTopic         string   `yaml:"kafka_topic"`
}

type Trending struct {
	FeedURL string `yaml:"feed_url"`
	Limit   int    `yaml:"limit"`
	TTL     string `yaml:"ttl"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

type Config struct {
	ServerAddr string    `yaml:"server_addr"`
	Timezone   string    `yaml:"timezone"`
	LogLevel   string    `yaml:"log_level"`
	LLM        LLM       `yaml:"llm"`
	Schedule   Schedule  `yaml:"schedule"`
	Markers    Markers   `yaml:"markers"`
	Archive    Archive   `yaml:"archive"`
	Trending   Trending  `yaml:"trending"`
	Telemetry  Telemetry `yaml:"telemetry"`
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// MarkerPath is the default sqlite marker database.
func MarkerPath() string {
	return filepath.Join(xdg.CacheHome, appName, "markers.db")
}

// Location resolves Timezone. Empty means the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 0)
}

func (c *Config) ScheduleInterval() time.Duration {
	d := parseDuration(c.Schedule.Interval, time.Minute)
	if d <= 0 {
		return time.Minute
	}
	return d
}

func (c *Config) TrendingTTL() time.Duration {
	return parseDuration(c.Trending.TTL, time.Hour)
}

// MarkerStorePath returns Markers.Path or the cache default.
func (c *Config) MarkerStorePath() string {
	if c.Markers.Path != "" {
		return c.Markers.Path
	}
	return MarkerPath()
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads path (or the default path) over the embedded defaults, applies
// .env and environment overrides, then validates the result.
func Load(path string) (*Config, error) {
	// 本地开发用 .env，不存在就忽略
	_ = godotenv.Load()

	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// first run: best effort, the embedded defaults are already loaded
		_ = writeDefaults(path)
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func applyEnv(cfg *Config) {
	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.ServerAddr, "SERVER_ADDR")
	setString(&cfg.Timezone, "TZ_NAME")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Markers.Backend, "MARKER_BACKEND")
	setString(&cfg.Markers.RedisURL, "REDIS_URL")

	// provider specific keys win over the generic API_KEY
	setString(&cfg.LLM.APIKey, "API_KEY")
	switch cfg.LLM.Provider {
	case "gemini":
		setString(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	case "openai", "deepseek":
		setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	case "anthropic":
		setString(&cfg.LLM.APIKey, "ANTHROPIC_API_KEY")
	}

	if v := strings.TrimSpace(os.Getenv("LLM_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.Retries = n
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func validate(cfg *Config) error {
	switch cfg.LLM.Provider {
	case "gemini", "openai", "anthropic", "mock":
	case "deepseek":
		if cfg.LLM.BaseURL == "" {
			return errors.New("llm.provider deepseek requires llm.base_url")
		}
	case "":
		return errors.New("llm.provider is required")
	default:
		return fmt.Errorf("llm.provider: unknown provider %q (valid: gemini, openai, deepseek, anthropic, mock)", cfg.LLM.Provider)
	}
	if cfg.LLM.Retries < 0 {
		return errors.New("llm.retries cannot be negative")
	}
	for name, raw := range map[string]string{
		"llm.timeout":       cfg.LLM.Timeout,
		"schedule.interval": cfg.Schedule.Interval,
		"trending.ttl":      cfg.Trending.TTL,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s: invalid duration %q", name, raw)
		}
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	switch cfg.Markers.Backend {
	case "", "sqlite", "memory":
	case "redis":
		if cfg.Markers.RedisURL == "" {
			return errors.New("markers.backend redis requires markers.redis_url")
		}
	default:
		return fmt.Errorf("markers.backend: unknown backend %q (valid: sqlite, memory, redis)", cfg.Markers.Backend)
	}

	for name, raw := range map[string]string{
		"archive.elasticsearch_addr": cfg.Archive.ElasticsearchAddr,
		"trending.feed_url":          cfg.Trending.FeedURL,
		"telemetry.otlp_endpoint":    cfg.Telemetry.OTLPEndpoint,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	if len(cfg.Archive.KafkaBrokers) > 0 && cfg.Archive.KafkaTopic == "" {
		return errors.New("archive.kafka_topic is required when kafka_brokers is set")
	}
	return nil
}
