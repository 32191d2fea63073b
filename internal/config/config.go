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

// Config holds the scribe API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Manifest ManifestConfig `yaml:"manifest"`
	Database DatabaseConfig `yaml:"database"`
	Text     TextConfig     `yaml:"text"`
	Archive  ArchiveConfig  `yaml:"archive"`
	UIState  UIStateConfig  `yaml:"ui_state"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ManifestConfig selects and configures the manifest provider.
type ManifestConfig struct {
	Provider   string `yaml:"provider"` // http, store (default: http)
	URL        string `yaml:"url"`      // http provider: manifest JSON location
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxBytes   int64  `yaml:"max_bytes"`
	KeyPrefix  string `yaml:"key_prefix"` // store provider: document key prefix
}

// DatabaseConfig holds document-store connection settings. Required only
// when the store manifest provider or the redis UI-state store is selected.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// TextConfig holds per-document text fetch settings.
type TextConfig struct {
	BaseURL       string `yaml:"base_url"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	MaxBytes      int64  `yaml:"max_bytes"`
	CacheTTLSec   int    `yaml:"cache_ttl_sec"`
	ObjectStorage bool   `yaml:"object_storage"` // percent-encode path segments for a bucket backend
}

// ArchiveConfig holds normalization and relatedness settings.
type ArchiveConfig struct {
	RootPrefix   string `yaml:"root_prefix"` // ingestion-root prefix stripped from raw paths
	RelatedLimit int    `yaml:"related_limit"`
	WrapWidth    int    `yaml:"wrap_width"` // 0 disables long-line wrapping
}

// UIStateConfig holds the persisted UI state store settings.
type UIStateConfig struct {
	Store     string `yaml:"store"` // memory, redis (default: memory)
	KeyPrefix string `yaml:"key_prefix"`
	TTLHours  int    `yaml:"ttl_hours"`
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Manifest.Provider == "" {
		c.Manifest.Provider = "http"
	}
	if c.Manifest.TimeoutSec <= 0 {
		c.Manifest.TimeoutSec = 30
	}
	if c.Manifest.MaxBytes <= 0 {
		c.Manifest.MaxBytes = 32 << 20 // 32MB manifest ceiling
	}
	if c.Manifest.KeyPrefix == "" {
		c.Manifest.KeyPrefix = "scribe:doc:"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Text.TimeoutSec <= 0 {
		c.Text.TimeoutSec = 15
	}
	if c.Text.MaxBytes <= 0 {
		c.Text.MaxBytes = 4 << 20
	}
	if c.Text.CacheTTLSec <= 0 {
		c.Text.CacheTTLSec = 600
	}
	if c.Archive.RootPrefix == "" {
		c.Archive.RootPrefix = "extracted/"
	}
	if c.Archive.RelatedLimit <= 0 {
		c.Archive.RelatedLimit = 5
	}
	if c.UIState.Store == "" {
		c.UIState.Store = "memory"
	}
	if c.UIState.KeyPrefix == "" {
		c.UIState.KeyPrefix = "scribe:ui:"
	}
	if c.UIState.TTLHours <= 0 {
		c.UIState.TTLHours = 24 * 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Manifest.Provider {
	case "http":
		if c.Manifest.URL == "" {
			return fmt.Errorf("manifest.url is required for the http provider")
		}
	case "store":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the store provider")
		}
	default:
		return fmt.Errorf("manifest.provider must be \"http\" or \"store\", got %q", c.Manifest.Provider)
	}
	switch c.UIState.Store {
	case "memory":
		// ok
	case "redis":
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis ui_state store")
		}
	default:
		return fmt.Errorf("ui_state.store must be \"memory\" or \"redis\", got %q", c.UIState.Store)
	}
	if c.Text.BaseURL == "" {
		return fmt.Errorf("text.base_url is required")
	}
	if c.Archive.WrapWidth < 0 {
		return fmt.Errorf("archive.wrap_width must be >= 0, got %d", c.Archive.WrapWidth)
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
