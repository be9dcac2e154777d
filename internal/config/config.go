// Package config defines the tasklist configuration and its viper bindings.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const appName = "tasklist"

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Views the TUI can open with
const (
	ViewToday   = "today"
	ViewAll     = "all"
	ViewFlagged = "flagged"
)

// Color themes for the TUI
const (
	ThemeTokyoNight = "tokyo-night"
	ThemeTokyoDay   = "tokyo-day"
)

// StderrLog as logging.file sends logs to stderr instead of a file
const StderrLog = "-"

// Config holds all tasklist configuration
type Config struct {
	Storage    StorageConfig `mapstructure:"storage"`
	SampleData bool          `mapstructure:"sample_data"`
	Logging    LoggingConfig `mapstructure:"logging"`
	UI         UIConfig      `mapstructure:"ui"`
}

// StorageConfig selects where tasks and lists are persisted
type StorageConfig struct {
	// Backend is one of sqlite, file or memory
	Backend string `mapstructure:"backend"`
	// Dir holds the database, the JSON files and the log file
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// File is relative to Storage.Dir unless absolute
	File string `mapstructure:"file"`
}

// UIConfig controls the terminal UI
type UIConfig struct {
	StartView string `mapstructure:"start_view"`
	Theme     string `mapstructure:"theme"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Dir:     DataDir(),
		},
		SampleData: true,
		Logging: LoggingConfig{
			Level: "info",
			File:  appName + ".log",
		},
		UI: UIConfig{
			StartView: ViewToday,
			Theme:     ThemeTokyoNight,
		},
	}
}

// SetDefaults registers the default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("sample_data", defaults.SampleData)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("ui.start_view", defaults.UI.StartView)
	v.SetDefault("ui.theme", defaults.UI.Theme)
}

// Load unmarshals and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// LogPath returns the log file path, or "" when logging goes to stderr
func (c *Config) LogPath() string {
	if c.Logging.File == StderrLog {
		return ""
	}
	if filepath.IsAbs(c.Logging.File) {
		return c.Logging.File
	}
	return filepath.Join(c.Storage.Dir, c.Logging.File)
}

// ConfigDir returns the directory searched for config.yaml
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".config", appName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default storage directory
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".local", "share", appName)
}
