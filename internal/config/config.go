// Package config loads SmartFreeze settings from defaults, an optional YAML
// file, and SMARTFREEZE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/infra"
	"github.com/eliteGoblin/focusd/smartfreeze/internal/logging"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SMARTFREEZE_THRESHOLD_MB.
	EnvPrefix = "SMARTFREEZE"

	// EnvConfigPath points at an alternative config file.
	EnvConfigPath = "SMARTFREEZE_CONFIG"

	appDir         = "smartfreeze"
	configFileName = "config.yaml"
)

// Config holds all SmartFreeze configuration.
type Config struct {
	ThresholdMB       uint64        `yaml:"threshold_mb" split_words:"true"`
	KeepCommunication bool          `yaml:"keep_communication" split_words:"true"`
	Interval          time.Duration `yaml:"interval"`
	StatePath         string        `yaml:"state_path" split_words:"true"`
	DataDir           string        `yaml:"data_dir" split_words:"true"`
	ControlAddr       string        `yaml:"control_addr" split_words:"true"`
	LogLevel          string        `yaml:"log_level" split_words:"true"`
	LogPath           string        `yaml:"log_path" split_words:"true"`
	Journal           bool          `yaml:"journal"`
	JournalRetention  time.Duration `yaml:"journal_retention" split_words:"true"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		ThresholdMB:       domain.DefaultSelectionConfig().MinMemoryMB,
		KeepCommunication: domain.DefaultSelectionConfig().KeepCommunication,
		Interval:          60 * time.Second,
		StatePath:         infra.DefaultStatePath(),
		DataDir:           defaultDataDir(),
		ControlAddr:       "127.0.0.1:47821",
		LogLevel:          "info",
		LogPath:           logging.DefaultLogPath(),
		Journal:           true,
		JournalRetention:  30 * 24 * time.Hour,
	}
}

// DefaultPath returns $SMARTFREEZE_CONFIG, or config.yaml under the user config dir.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir, configFileName)
	}
	return filepath.Join(dir, appDir, configFileName)
}

// Load reads configuration. A missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from DefaultPath or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load(DefaultPath())
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects settings the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Interval < time.Second {
		return fmt.Errorf("interval must be at least 1s, got %s", c.Interval)
	}
	if c.ControlAddr == "" {
		return errors.New("control_addr must not be empty")
	}
	if c.StatePath == "" {
		return errors.New("state_path must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Selection returns the engine selection settings.
func (c *Config) Selection() domain.SelectionConfig {
	return domain.SelectionConfig{
		MinMemoryMB:       c.ThresholdMB,
		KeepCommunication: c.KeepCommunication,
	}
}

// Logging returns the daemon logger settings.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.LogLevel
	if c.LogPath != "" {
		cfg.OutputPaths = []string{c.LogPath}
	}
	return cfg
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDir)
	}
	return filepath.Join(dir, appDir)
}
