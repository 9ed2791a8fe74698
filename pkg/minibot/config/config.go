package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size" yaml:"max_size"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Daily      bool   `mapstructure:"daily" yaml:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level" yaml:"level"`
	Path       string            `mapstructure:"path" yaml:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation" yaml:"rotation"`
	Components map[string]string `mapstructure:"components" yaml:"components"`
}

// ColorsConfig holds display colours. Values are colour names ("green",
// "lightcyan_ex"), hex strings or ANSI numbers.
type ColorsConfig struct {
	Primary string `mapstructure:"primary" yaml:"primary"`
}

// ExportConfig configures the export prompt.
type ExportConfig struct {
	Filename string `mapstructure:"filename" yaml:"filename"`
}

// DeleteConfig configures file removal.
type DeleteConfig struct {
	UseTrash bool `mapstructure:"use_trash" yaml:"use_trash"`
}

// ManifestConfig configures the deletion history.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	Path          string `mapstructure:"path" yaml:"path"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	TopN        int            `mapstructure:"top_n" yaml:"top_n"`
	DefaultPath string         `mapstructure:"default_path" yaml:"default_path"`
	Colors      ColorsConfig   `mapstructure:"colors" yaml:"colors"`
	Workers     int            `mapstructure:"workers" yaml:"workers"`
	MinSize     string         `mapstructure:"min_size" yaml:"min_size"`
	Exclude     []string       `mapstructure:"exclude" yaml:"exclude"`
	Export      ExportConfig   `mapstructure:"export" yaml:"export"`
	Delete      DeleteConfig   `mapstructure:"delete" yaml:"delete"`
	Manifest    ManifestConfig `mapstructure:"manifest" yaml:"manifest"`
	Logging     LoggingConfig  `mapstructure:"logging" yaml:"logging"`

	// File is the config file that was read, empty when running on defaults.
	File string `mapstructure:"-" yaml:"-"`
}

// Load loads configuration from file and environment variables.
// When file is empty, config file locations are searched in order:
//   - $XDG_CONFIG_HOME/minibot/config.{yaml,json,toml}
//   - $HOME/.config/minibot/config.{yaml,json,toml}
//   - ./config.json
//
// Environment variables are prefixed with MINIBOT_ (e.g., MINIBOT_TOP_N).
// A missing config file is not an error; every key has a default.
func Load(file string) (*Config, error) {
	v := viper.New()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, homeDir)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	} else if err := readSearched(v, homeDir); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.DefaultPath == "" {
		cfg.DefaultPath = DefaultPath
	}
	if cfg.Colors.Primary == "" {
		cfg.Colors.Primary = DefaultPrimaryColor
	}
	if cfg.Export.Filename == "" {
		cfg.Export.Filename = DefaultExportFilename
	}
	if cfg.Workers < 0 {
		cfg.Workers = DefaultWorkers
	}

	if strings.HasPrefix(cfg.Manifest.Path, "~") {
		cfg.Manifest.Path = filepath.Join(homeDir, cfg.Manifest.Path[1:])
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault("top_n", DefaultTopN)
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("colors.primary", DefaultPrimaryColor)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("min_size", "")
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("export.filename", DefaultExportFilename)
	v.SetDefault("delete.use_trash", false)
	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)
	v.SetDefault("manifest.path", filepath.Join(homeDir, ".config", appName, ".manifest"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", DefaultComponentLevels)
}

// readSearched reads the first config found on the search path, falling back
// to the legacy config.json in the working directory.
func readSearched(v *viper.Viper, homeDir string) error {
	v.SetConfigName("config")
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, appName))
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", appName))

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if _, statErr := os.Stat(LegacyConfigFile); statErr != nil {
		// No config file anywhere; defaults apply.
		return nil
	}

	v.SetConfigFile(LegacyConfigFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", LegacyConfigFile, err)
	}

	return nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", appName), nil
}

// ConfigPath returns the path WriteDefault writes to.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ManifestDir returns the default deletion history directory.
func ManifestDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".manifest"), nil
}

// WriteDefault writes a default config file if none exists and returns its
// path. An existing file is left untouched.
func WriteDefault() (string, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	manifestDir, err := ManifestDir()
	if err != nil {
		return "", err
	}

	defaultConfig := fmt.Sprintf(`# minibot configuration

# Number of files shown in the results table
top_n: %d

# Path offered at the scan prompt
default_path: %s

# Table and progress bar colour (name, #hex or ANSI number)
colors:
  primary: %s

# Scan workers (0 sizes the pool from CPU count and memory)
workers: %d

# Paths or glob patterns never scanned
exclude:
  - /proc
  - /sys
  - /dev

export:
  filename: %s

delete:
  # Move files to the desktop trash instead of removing them
  use_trash: false

# Deletion history
manifest:
  enabled: true
  path: %s
  retention_days: %d

logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/minibot/minibot.log)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  components:
    scanner: info
    deleter: info
    session: info
    tui: info
`, DefaultTopN, DefaultPath, DefaultPrimaryColor, DefaultWorkers, DefaultExportFilename, manifestDir, DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, nil
}

// StateDir returns $XDG_STATE_HOME/minibot/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, appName)
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), appName+".log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
