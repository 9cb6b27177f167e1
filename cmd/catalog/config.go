package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/entremotivator/catalog/internal/core/domain"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Slug    SlugConfig    `mapstructure:"slug"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig holds catalog persistence configuration.
type StoreConfig struct {
	// Driver selects the backend: "csv" or "sqlite".
	Driver string `mapstructure:"driver"`

	// Path is the CSV file location (csv driver).
	Path string `mapstructure:"path"`

	// BackupDir is where CSV backups are written (csv driver).
	BackupDir string `mapstructure:"backup_dir"`

	// KeepBackups is how many CSV backups to retain (csv driver).
	KeepBackups int `mapstructure:"keep_backups"`

	// DSN is the database location (sqlite driver).
	DSN string `mapstructure:"dsn"`
}

// CatalogConfig holds site and affiliate configuration.
type CatalogConfig struct {
	// BaseURL is the public site URL product links are built against.
	BaseURL string `mapstructure:"base_url"`

	// CommissionRate is the default commission percentage in SliceWP exports.
	CommissionRate float64 `mapstructure:"commission_rate"`
}

// SlugConfig holds slug policy configuration.
type SlugConfig struct {
	MinLength int `mapstructure:"min_length"`
	MaxLength int `mapstructure:"max_length"`

	// MaxSuffix is the highest numbered suggestion variant before the
	// suggester falls back to a date suffix.
	MaxSuffix int `mapstructure:"max_suffix"`

	// ReservedWords are added on top of the built-in reserved set.
	ReservedWords []string `mapstructure:"reserved_words"`

	// PolicyFile is an optional YAML file with the same fields; values set
	// there override the ones above.
	PolicyFile string `mapstructure:"policy_file"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("store.driver", "csv")
	v.SetDefault("store.path", "./data/products.csv")
	v.SetDefault("store.backup_dir", "./data/backups")
	v.SetDefault("store.keep_backups", 10)
	v.SetDefault("store.dsn", "./data/catalog.db")
	v.SetDefault("catalog.base_url", "https://entremotivator.com")
	v.SetDefault("catalog.commission_rate", 10)
	v.SetDefault("slug.min_length", domain.DefaultMinSlugLength)
	v.SetDefault("slug.max_length", domain.DefaultMaxSlugLength)
	v.SetDefault("slug.max_suffix", domain.DefaultMaxSuffix)
	v.SetDefault("slug.policy_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Slug.PolicyFile != "" {
		if err := cfg.Slug.applyPolicyFile(cfg.Slug.PolicyFile); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// =============================================================================
// Slug Policy
// =============================================================================

// slugPolicyFile is the YAML shape of an external slug policy file.
type slugPolicyFile struct {
	MinLength     int      `yaml:"min_length"`
	MaxLength     int      `yaml:"max_length"`
	MaxSuffix     int      `yaml:"max_suffix"`
	ReservedWords []string `yaml:"reserved_words"`
}

func (c *SlugConfig) applyPolicyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read slug policy file: %w", err)
	}

	var file slugPolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse slug policy file: %w", err)
	}

	if file.MinLength > 0 {
		c.MinLength = file.MinLength
	}
	if file.MaxLength > 0 {
		c.MaxLength = file.MaxLength
	}
	if file.MaxSuffix > 0 {
		c.MaxSuffix = file.MaxSuffix
	}
	c.ReservedWords = append(c.ReservedWords, file.ReservedWords...)
	return nil
}

// Policy builds the domain slug policy from the configuration. Configured
// reserved words extend the built-in set; they never replace it.
func (c SlugConfig) Policy() domain.Policy {
	policy := domain.DefaultPolicy()
	if c.MinLength > 0 {
		policy.MinLength = c.MinLength
	}
	if c.MaxLength > 0 {
		policy.MaxLength = c.MaxLength
	}
	if c.MaxSuffix > 0 {
		policy.MaxSuffix = c.MaxSuffix
	}
	for _, word := range c.ReservedWords {
		policy.Reserved[domain.NormalizeSlug(word)] = true
	}
	return policy
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
