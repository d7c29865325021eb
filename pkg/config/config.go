// Package config provides YAML-based configuration loading for the RPC
// client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root client configuration.
type Config struct {
	// Host is the server name, e.g. "https://my.server". Required unless
	// URL is set.
	Host string `mapstructure:"host"`

	// Port is appended to the host when non-zero.
	Port int `mapstructure:"port"`

	// URL is the exact API URL; when empty it is derived from Host and
	// Port with an "/api/" suffix.
	URL string `mapstructure:"url"`

	// Username and Password are handed to the login bootstrap.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// Headers are attached to every request. The content-type header
	// defaults to the selected codec's.
	Headers map[string]string `mapstructure:"headers"`

	// Codec selects the envelope codec: json (default) or cbor.
	Codec string `mapstructure:"codec"`

	// Transport selects the poster: http (default) or http3.
	Transport string `mapstructure:"transport"`

	// Timeout bounds one deferred-task poll sequence.
	Timeout time.Duration `mapstructure:"timeout"`

	// SleepInterval is the pause between task status checks.
	SleepInterval time.Duration `mapstructure:"sleep_interval"`

	// MaxFailures is the number of consecutive tolerated status-check
	// failures before a poll sequence turns fatal.
	MaxFailures int `mapstructure:"max_failures"`

	// RunAsync makes deferred tasks return a future by default.
	RunAsync bool `mapstructure:"run_async"`

	// Log holds logging configuration.
	Log LogConfig `mapstructure:"log"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Codec:         "json",
		Transport:     "http",
		Timeout:       300 * time.Second,
		SleepInterval: 5 * time.Second,
		MaxFailures:   1,
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			Outputs:     []string{"stderr"},
			Development: false,
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/rpcclient.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment
// overrides. Environment variables use the prefix RPCCLIENT and `.`/`-`
// are replaced with `_`. Example: RPCCLIENT_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RPCCLIENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("url", cfg.URL)
	v.SetDefault("username", cfg.Username)
	v.SetDefault("password", cfg.Password)
	v.SetDefault("codec", cfg.Codec)
	v.SetDefault("transport", cfg.Transport)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("sleep_interval", cfg.SleepInterval)
	v.SetDefault("max_failures", cfg.MaxFailures)
	v.SetDefault("run_async", cfg.RunAsync)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	// Choose config file
	if path == "" {
		// Allow override via env var
		if envPath := os.Getenv("RPCCLIENT_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search common locations with base name `rpcclient`
		v.SetConfigName("rpcclient")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".rpcclient"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
		// ok
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	if c.URL == "" && strings.TrimSpace(c.Host) == "" {
		return errors.New("either url or host is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Codec)) {
	case "", "json", "cbor":
		// ok
	default:
		return fmt.Errorf("invalid codec: %q", c.Codec)
	}
	if c.Timeout < 0 || c.SleepInterval < 0 {
		return errors.New("timeout and sleep_interval must not be negative")
	}
	if c.MaxFailures < 0 {
		return errors.New("max_failures must not be negative")
	}
	return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
