package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the config file is looked for when --config is not given
const DefaultPath = "config/config.yaml"

// Environment variables that override file values
const (
	EnvFFmpeg       = "CLIPDESK_FFMPEG"
	EnvFFprobe      = "CLIPDESK_FFPROBE"
	EnvProgressMode = "CLIPDESK_PROGRESS_MODE"
	EnvLogLevel     = "CLIPDESK_LOG_LEVEL"
	EnvListen       = "CLIPDESK_LISTEN"
)

// Config represents the complete application configuration
type Config struct {
	Tools      ToolsConfig      `yaml:"tools"`
	Progress   ProgressConfig   `yaml:"progress"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Bridge     BridgeConfig     `yaml:"bridge"`
}

// ToolsConfig names the external executables. Bare names are resolved via PATH.
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// ProgressConfig selects how progress is read and what the UI event is called
type ProgressConfig struct {
	Mode  string `yaml:"mode"`
	Event string `yaml:"event"`
}

// ValidationConfig contains the local checks run before a tool is launched
type ValidationConfig struct {
	Strict           bool `yaml:"strict"`
	CheckInputExists bool `yaml:"check_input_exists"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BridgeConfig contains settings for the HTTP bridge the UI talks to
type BridgeConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Tools:      ToolsConfig{FFmpeg: "ffmpeg", FFprobe: "ffprobe"},
		Progress:   ProgressConfig{Mode: "stderr", Event: "progress"},
		Validation: ValidationConfig{Strict: true, CheckInputExists: true},
		Logging:    LoggingConfig{Level: "info", Format: "console"},
		Bridge:     BridgeConfig{Listen: "127.0.0.1:7311"},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path if it exists and falls back to Default otherwise.
// A .env file in the working directory and CLIPDESK_* variables are applied
// on top, then the result is validated.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values with the CLIPDESK_* environment variables.
// lookup is os.LookupEnv outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvFFmpeg, &c.Tools.FFmpeg)
	set(EnvFFprobe, &c.Tools.FFprobe)
	set(EnvProgressMode, &c.Progress.Mode)
	set(EnvLogLevel, &c.Logging.Level)
	set(EnvListen, &c.Bridge.Listen)
}

// Validate rejects values the rest of the application cannot act on
func (c *Config) Validate() error {
	if c.Tools.FFmpeg == "" || c.Tools.FFprobe == "" {
		return fmt.Errorf("tools.ffmpeg and tools.ffprobe must be set")
	}
	switch strings.ToLower(c.Progress.Mode) {
	case "", "stderr", "pipe":
	default:
		return fmt.Errorf("progress.mode %q is not one of stderr, pipe", c.Progress.Mode)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	return nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
