package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configFileName = "config.yaml"

// Config holds all application configuration
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Progress ProgressConfig `mapstructure:"progress"`
	Content  ContentConfig  `mapstructure:"content"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StorageConfig holds progress storage configuration
type StorageConfig struct {
	Dir string `mapstructure:"dir"` // empty keeps progress in memory only
}

// ProgressConfig holds persistence tuning
type ProgressConfig struct {
	SaveDelay time.Duration `mapstructure:"save_delay"`
}

// ContentConfig points at an optional catalog that replaces the built-in one
type ContentConfig struct {
	File string `mapstructure:"file"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	ShowInspector bool     `mapstructure:"show_inspector"`
	OpenCommand   string   `mapstructure:"open_command"` // browser command, empty for system default
	OpenArgs      []string `mapstructure:"open_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		Progress: ProgressConfig{
			SaveDelay: time.Second,
		},
		UI: UIConfig{
			ShowInspector: true,
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
		return filepath.Join(os.Getenv("APPDATA"), "waypoint", "waypoint.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "waypoint", "waypoint.log")
	}
}

// defaultDataPath returns the default progress database directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "waypoint", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "waypoint", "data")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "waypoint")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "waypoint")
	}
}

// ConfigDir returns the directory LoadConfig reads from.
func ConfigDir() string {
	return defaultConfigPath()
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath(), ".")
}

// LoadConfigFrom loads config.yaml from the first dir that has one, then
// applies WAYPOINT_* environment overrides (WAYPOINT_STORAGE_DIR etc).
func LoadConfigFrom(dirs ...string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Dir = ExpandHome(cfg.Storage.Dir)
	cfg.Content.File = ExpandHome(cfg.Content.File)
	cfg.Logging.File = ExpandHome(cfg.Logging.File)
	if cfg.Progress.SaveDelay < 0 {
		return nil, fmt.Errorf("progress.save_delay must not be negative: %s", cfg.Progress.SaveDelay)
	}

	return cfg, nil
}

// newViper registers every key with its default so environment overrides
// apply even when the key is missing from the file.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("WAYPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range settings(cfg) {
		v.SetDefault(key, value)
	}
	return v
}

func setAll(v *viper.Viper, cfg *Config) {
	for key, value := range settings(cfg) {
		v.Set(key, value)
	}
}

// settings flattens cfg into snake_case viper keys.
func settings(cfg *Config) map[string]any {
	return map[string]any{
		"storage.dir":         cfg.Storage.Dir,
		"progress.save_delay": cfg.Progress.SaveDelay.String(),
		"content.file":        cfg.Content.File,
		"ui.show_inspector":   cfg.UI.ShowInspector,
		"ui.open_command":     cfg.UI.OpenCommand,
		"ui.open_args":        cfg.UI.OpenArgs,
		"logging.file":        cfg.Logging.File,
		"logging.level":       cfg.Logging.Level,
	}
}

// SaveConfig saves the configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(defaultConfigPath(), cfg)
}

// SaveConfigTo writes cfg as config.yaml inside dir
func SaveConfigTo(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setAll(v, cfg)

	configFile := filepath.Join(dir, configFileName)
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
