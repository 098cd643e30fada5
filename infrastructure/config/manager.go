package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// ConfigManager reads and updates config entries by dotted key
// (e.g. "progress.mode") and persists every change.
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// Entry is one key/value pair as shown by "config list"
type Entry struct {
	Key   string
	Value string
}

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(ptr func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func boolField(ptr func(c *Config) *bool) field {
	return field{
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
			}
			*ptr(c) = b
			return nil
		},
	}
}

var fields = map[string]field{
	"tools.ffmpeg":                  stringField(func(c *Config) *string { return &c.Tools.FFmpeg }),
	"tools.ffprobe":                 stringField(func(c *Config) *string { return &c.Tools.FFprobe }),
	"progress.mode":                 stringField(func(c *Config) *string { return &c.Progress.Mode }),
	"progress.event":                stringField(func(c *Config) *string { return &c.Progress.Event }),
	"validation.strict":             boolField(func(c *Config) *bool { return &c.Validation.Strict }),
	"validation.check_input_exists": boolField(func(c *Config) *bool { return &c.Validation.CheckInputExists }),
	"logging.level":                 stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":                stringField(func(c *Config) *string { return &c.Logging.Format }),
	"bridge.listen":                 stringField(func(c *Config) *string { return &c.Bridge.Listen }),
}

// Keys returns every settable key in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value for key (case-insensitive)
func (m *ConfigManager) Get(key string) (string, error) {
	f, _, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(m.config), nil
}

// Set updates key, validates the whole config and saves it.
// On a validation failure the previous value is restored.
func (m *ConfigManager) Set(key, value string) error {
	f, key, err := lookup(key)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, key)
	}

	previous := f.get(m.config)
	if err := f.set(m.config, value); err != nil {
		return err
	}
	if err := m.config.Validate(); err != nil {
		_ = f.set(m.config, previous)
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	return Save(m.config, m.configPath)
}

// List returns all entries in key order
func (m *ConfigManager) List() []Entry {
	keys := Keys()
	result := make([]Entry, 0, len(keys))
	for _, k := range keys {
		result = append(result, Entry{Key: k, Value: fields[k].get(m.config)})
	}
	return result
}

func lookup(key string) (field, string, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	f, ok := fields[key]
	if !ok {
		return field{}, key, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f, key, nil
}
