package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the gijidex server configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Search    SearchConfig    `yaml:"search"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// UpstreamConfig holds minutes API client settings.
type UpstreamConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	PageSize    int    `yaml:"page_size"`
	Retries     int    `yaml:"retries"`
	Concurrency int    `yaml:"concurrency"`
}

// SearchConfig holds search pipeline settings.
type SearchConfig struct {
	DefaultMaxRecords int `yaml:"default_max_records"`
	TopKeywords       int `yaml:"top_keywords"`
}

// TokenizerConfig holds keyword extraction settings.
type TokenizerConfig struct {
	Disabled       bool     `yaml:"disabled"`
	MinTokenLength int      `yaml:"min_token_length"`
	StopWords      []string `yaml:"stop_words"` // empty = built-in Japanese stop-word set
}

// HistoryConfig holds search history storage settings.
type HistoryConfig struct {
	Backend    string      `yaml:"backend"` // csv, redis (default: csv)
	Path       string      `yaml:"path"`
	MaxEntries int         `yaml:"max_entries"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig holds redis history backend settings.
type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://kokkai.ndl.go.jp/api/speech"
	}
	if c.Upstream.TimeoutSec <= 0 {
		c.Upstream.TimeoutSec = 30
	}
	if c.Upstream.PageSize <= 0 {
		c.Upstream.PageSize = 100
	}
	if c.Upstream.Retries <= 0 {
		c.Upstream.Retries = 2
	}
	if c.Upstream.Concurrency <= 0 {
		c.Upstream.Concurrency = 1
	}
	if c.Search.DefaultMaxRecords <= 0 {
		c.Search.DefaultMaxRecords = 30
	}
	if c.Search.TopKeywords <= 0 {
		c.Search.TopKeywords = 50
	}
	if c.Tokenizer.MinTokenLength <= 0 {
		c.Tokenizer.MinTokenLength = 2
	}
	if c.History.Backend == "" {
		c.History.Backend = "csv"
	}
	if c.History.Path == "" {
		c.History.Path = "search_history.csv"
	}
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = 500
	}
	if c.History.Redis.KeyPrefix == "" {
		c.History.Redis.KeyPrefix = "gijidex:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Upstream.PageSize > 100 {
		return fmt.Errorf("upstream.page_size must be between 1 and 100, got %d", c.Upstream.PageSize)
	}
	switch c.History.Backend {
	case "", "csv", "redis":
		// ok
	default:
		return fmt.Errorf("history.backend must be \"csv\" or \"redis\", got %q", c.History.Backend)
	}
	if c.History.Backend == "redis" && len(c.History.Redis.Addrs) == 0 {
		return fmt.Errorf("history.redis.addrs is required for the redis backend")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
