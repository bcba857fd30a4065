// ABOUTME: Application configuration stored at XDG paths
// ABOUTME: Layers defaults, a YAML file, a .env file and DONORBASE_* environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/harperreed/donorbase/models"
)

const appName = "donorbase"

type Config struct {
	DBPath         string `yaml:"db_path"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	DefaultCountry string `yaml:"default_country"`
	// FollowUpDays is the cadence used when scheduling the next follow-up.
	FollowUpDays int `yaml:"follow_up_days"`
}

// ConfigDir returns the XDG config directory for the application.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// ConfigPath returns the YAML config file location.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDBPath returns the XDG data location of the database.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, appName, appName+".db")
}

func Default() *Config {
	return &Config{
		DBPath:         DefaultDBPath(),
		LogLevel:       "info",
		LogFormat:      "console",
		DefaultCountry: models.DefaultCountry,
		FollowUpDays:   30,
	}
}

// Load reads the config file at ConfigPath after loading a .env file from the working
// directory, if one exists. Variables already set in the environment win over .env values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(ConfigPath())
}

// LoadFrom builds a config from defaults, the YAML file at path (if present) and the
// environment.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the directory as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q (use console or json)", c.LogFormat)
	}
	if c.FollowUpDays <= 0 {
		return fmt.Errorf("follow_up_days must be positive, got %d", c.FollowUpDays)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides:
// - DONORBASE_DB_PATH
// - DONORBASE_LOG_LEVEL
// - DONORBASE_LOG_FORMAT
// - DONORBASE_DEFAULT_COUNTRY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DONORBASE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("DONORBASE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DONORBASE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("DONORBASE_DEFAULT_COUNTRY"); v != "" {
		cfg.DefaultCountry = v
	}
}
