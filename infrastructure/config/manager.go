package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors for config management
var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Setting is one dotted key and its current value
type Setting struct {
	Key   string
	Value string
}

type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(ptr func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *ptr(c) },
		set: func(c *Config, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

// fields lists every settable key in display order
var fields = []struct {
	key string
	field
}{
	{"paths.output_directory", stringField(func(c *Config) *string { return &c.Paths.OutputDirectory })},
	{"audio.format", stringField(func(c *Config) *string { return &c.Audio.Format })},
	{"audio.sample_rate", field{
		get: func(c *Config) string { return strconv.Itoa(c.Audio.SampleRate) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, v)
			}
			c.Audio.SampleRate = n
			return nil
		},
	}},
	{"audio.bitrate", stringField(func(c *Config) *string { return &c.Audio.Bitrate })},
	{"limits.max_clip_seconds", field{
		get: func(c *Config) string { return strconv.FormatFloat(c.Limits.MaxClipSeconds, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
			}
			c.Limits.MaxClipSeconds = n
			return nil
		},
	}},
	{"ffmpeg.ffmpeg_path", stringField(func(c *Config) *string { return &c.FFmpeg.FFmpegPath })},
	{"ffmpeg.ffprobe_path", stringField(func(c *Config) *string { return &c.FFmpeg.FFprobePath })},
	{"ffmpeg.log_level", stringField(func(c *Config) *string { return &c.FFmpeg.LogLevel })},
	{"logging.level", stringField(func(c *Config) *string { return &c.Logging.Level })},
	{"logging.format", stringField(func(c *Config) *string { return &c.Logging.Format })},
}

// ConfigManager reads and updates individual settings, persisting each change
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

// List returns every setting in display order
func (m *ConfigManager) List() []Setting {
	result := make([]Setting, 0, len(fields))
	for _, f := range fields {
		result = append(result, Setting{Key: f.key, Value: f.get(m.config)})
	}
	return result
}

// Get returns the value of key (case-insensitive)
func (m *ConfigManager) Get(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(m.config), nil
}

// Set updates key, validates the whole config and saves it. The in-memory
// config is left unchanged when the new value is rejected.
func (m *ConfigManager) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	updated := *m.config
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}

func lookup(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f.field, nil
		}
	}
	return field{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Keys returns every settable key
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	return keys
}
