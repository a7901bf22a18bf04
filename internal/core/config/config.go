// Package config handles configuration loading and validation for tasktracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/tasktracker/internal/core/styles"
)

// DefaultTasksFile is the task file used when nothing else is configured.
// Relative paths resolve against the working directory.
const DefaultTasksFile = "tasks.json"

// Decode policies for the task file. These mirror jsonfile.Policy.
const (
	DecodeStrict  = "strict"
	DecodeLenient = "lenient"
)

// Color modes for terminal output.
const (
	ColorAuto   = styles.ColorAuto
	ColorAlways = styles.ColorAlways
	ColorNever  = styles.ColorNever
)

// Config holds the application configuration.
type Config struct {
	TasksFile    string `yaml:"tasks_file"    toml:"tasks_file"`
	DecodePolicy string `yaml:"decode_policy" toml:"decode_policy"`
	Theme        string `yaml:"theme"         toml:"theme"`
	Color        string `yaml:"color"         toml:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TasksFile:    DefaultTasksFile,
		DecodePolicy: DecodeStrict,
		Theme:        styles.DefaultTheme,
		Color:        ColorAuto,
	}
}

// Load reads the config file at configPath on top of the defaults. A missing
// file is not an error. Files ending in .toml are decoded as TOML, everything
// else as YAML.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := decode(configPath, data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TasksFile == "" {
		c.TasksFile = defaults.TasksFile
	}
	if c.DecodePolicy == "" {
		c.DecodePolicy = defaults.DecodePolicy
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Color == "" {
		c.Color = defaults.Color
	}
	c.DecodePolicy = strings.ToLower(c.DecodePolicy)
	c.Color = strings.ToLower(c.Color)
}

// TasksPath returns the task file path with a leading ~ expanded to the home
// directory.
func (c *Config) TasksPath() string {
	return expandHome(c.TasksFile)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
