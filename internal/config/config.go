// Package config resolves settings from flags, INTEGREAT_* environment
// variables, .env files, the config file and defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/junnyboy28/InteGreatai/internal/types"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// EnvPrefix prefixes every environment override (INTEGREAT_BASE_URL, ...)
	EnvPrefix = "INTEGREAT"

	DefaultAnalyzerURL = "http://localhost:8000"
	DefaultTimeout     = 30 * time.Second
	DefaultListen      = ":8000"
	DefaultRateLimit   = 10.0
	DefaultDescription = "Generated from InteGreat.ai"
)

var (
	// ConfigDir is the global configuration directory (~/.integreat)
	ConfigDir string

	// ConfigFile is the default config file inside ConfigDir
	ConfigFile string

	// CatalogsDir holds catalogs written by the analyze command
	CatalogsDir string
)

// Config is the resolved application configuration
type Config struct {
	BaseURL     string          `mapstructure:"base_url"`
	AnalyzerURL string          `mapstructure:"analyzer_url"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	Listen      string          `mapstructure:"listen"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFormat   string          `mapstructure:"log_format"`
	RateLimit   float64         `mapstructure:"rate_limit"`
	TLS         types.TLSConfig `mapstructure:"tls"`
	Collection  struct {
		Description string `mapstructure:"description"`
	} `mapstructure:"collection"`

	// ConfigFileUsed is the config file that was read, empty when none
	ConfigFileUsed string `mapstructure:"-"`
}

// RateBurst is the token bucket size for the test proxy
func (c *Config) RateBurst() int {
	burst := int(c.RateLimit * 2)
	if burst < 1 {
		return 1
	}
	return burst
}

// Initialize sets up the configuration directories.
// It creates ~/.integreat/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".integreat"))
}

// InitializeAt sets the global paths under dir and creates the directories
func InitializeAt(dir string) error {
	ConfigDir = dir
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	CatalogsDir = filepath.Join(ConfigDir, "catalogs")

	for _, d := range []string{ConfigDir, CatalogsDir} {
		if err := os.MkdirAll(d, DirPermissions); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return nil
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "")
	v.SetDefault("analyzer_url", DefaultAnalyzerURL)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("rate_limit", DefaultRateLimit)
	v.SetDefault("tls.insecure_skip_verify", false)
	v.SetDefault("tls.ca_file", "")
	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("collection.description", DefaultDescription)
}

// Options controls where Load looks for settings
type Options struct {
	// ConfigFile overrides the config file search
	ConfigFile string
	// EnvFiles are loaded into the process environment; existing variables win
	EnvFiles []string
	// SearchPaths are searched for config.yaml when ConfigFile is empty
	SearchPaths []string
	// Flags, when set, are bound by key name and take precedence over everything else
	Flags *pflag.FlagSet
}

// DefaultOptions searches the working directory and ConfigDir
func DefaultOptions() Options {
	paths := []string{"."}
	if ConfigDir != "" {
		paths = append(paths, ConfigDir)
	}
	return Options{
		EnvFiles:    []string{".env", ".env.local"},
		SearchPaths: paths,
	}
}

// Load resolves the configuration
func Load(opts Options) (*Config, error) {
	loadEnvFiles(opts.EnvFiles)

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFileUsed = v.ConfigFileUsed()

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}

	return &cfg, nil
}

// bindFlags binds flags whose names match a config key (dashes become underscores)
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !v.IsSet(key) && !isKnownKey(key) {
			return
		}
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

func isKnownKey(key string) bool {
	switch key {
	case "base_url", "analyzer_url", "timeout", "listen", "log_level", "log_format", "rate_limit":
		return true
	}
	return false
}

// loadEnvFiles loads .env files; later files do not override earlier ones
func loadEnvFiles(files []string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}
