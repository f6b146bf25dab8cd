package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all demo application configuration
type Config struct {
	Refresh RefreshConfig `mapstructure:"refresh"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RefreshConfig holds pull-to-refresh tuning
type RefreshConfig struct {
	Threshold        float64 `mapstructure:"threshold"`          // pull distance to arm an edge
	BottomThreshold  float64 `mapstructure:"bottom_threshold"`   // bottom fallback when content fits the viewport
	SucceededDelayMS int     `mapstructure:"succeeded_delay_ms"` // how long the success state is shown
	FailedDelayMS    int     `mapstructure:"failed_delay_ms"`    // how long the failure state is shown
	BottomPadding    int     `mapstructure:"bottom_padding"`     // spacer rows after content
}

// FeedConfig holds demo feed configuration
type FeedConfig struct {
	PageSize    int     `mapstructure:"page_size"`
	CacheDir    string  `mapstructure:"cache_dir"`    // empty = memory-only
	FailureRate float64 `mapstructure:"failure_rate"` // injected fetch failures, 0..1
	Seed        int64   `mapstructure:"seed"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Refresh: RefreshConfig{
			Threshold:        68,
			BottomThreshold:  68,
			SucceededDelayMS: 300,
			FailedDelayMS:    400,
			BottomPadding:    0,
		},
		Feed: FeedConfig{
			PageSize:    20,
			CacheDir:    defaultCachePath(),
			FailureRate: 0.15,
			Seed:        1,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "overscroll", "overscroll.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "overscroll", "overscroll.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "overscroll")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "overscroll")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "overscroll", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "overscroll", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("OVERSCROLL")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
