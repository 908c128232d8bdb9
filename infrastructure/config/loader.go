package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"audio-clip-extractor/domain/clip"
)

// DefaultPath is where the configuration file is looked up when --config is not given
const DefaultPath = "config/config.yaml"

// Environment variables that override file settings
const (
	EnvFFmpegPath  = "CLIP_FFMPEG_PATH"
	EnvFFprobePath = "CLIP_FFPROBE_PATH"
	EnvOutputDir   = "CLIP_OUTPUT_DIR"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Audio   AudioConfig   `yaml:"audio"`
	Limits  LimitsConfig  `yaml:"limits"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig contains directory paths for extracted clips
type PathsConfig struct {
	OutputDirectory string `yaml:"output_directory"`
}

// AudioConfig contains the default output encoding
type AudioConfig struct {
	Format     string `yaml:"format"`
	SampleRate int    `yaml:"sample_rate"`
	Bitrate    string `yaml:"bitrate"`
}

// LimitsConfig bounds what a single extraction may request
type LimitsConfig struct {
	// MaxClipSeconds of zero leaves clip length unbounded
	MaxClipSeconds float64 `yaml:"max_clip_seconds"`
}

// FFmpegConfig locates the ffmpeg tools
type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	LogLevel    string `yaml:"log_level"`
}

// LoggingConfig selects the diagnostic log handler
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Paths: PathsConfig{OutputDirectory: "."},
		Audio: AudioConfig{
			Format:     string(clip.DefaultFormat),
			SampleRate: clip.DefaultSampleRate,
			Bitrate:    clip.DefaultMP3Bitrate,
		},
		FFmpeg: FFmpegConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
			LogLevel:    "error",
		},
		Logging: LoggingConfig{Level: "warn", Format: "console"},
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

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), false, nil
		}
		return nil, false, err
	}
	return cfg, true, nil
}

// ApplyEnv overrides tool paths and the output directory from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvFFmpegPath)); v != "" {
		c.FFmpeg.FFmpegPath = v
	}
	if v := strings.TrimSpace(getenv(EnvFFprobePath)); v != "" {
		c.FFmpeg.FFprobePath = v
	}
	if v := strings.TrimSpace(getenv(EnvOutputDir)); v != "" {
		c.Paths.OutputDirectory = v
	}
}

// Validate checks that every value can be used to build an extraction
func (c *Config) Validate() error {
	var errs []error

	if c.Audio.Format != "" {
		if _, err := clip.ParseFormat(c.Audio.Format); err != nil {
			errs = append(errs, fmt.Errorf("audio.format: %w", err))
		}
	}
	if c.Audio.SampleRate != 0 {
		if err := clip.ValidateSampleRate(c.Audio.SampleRate, false); err != nil {
			errs = append(errs, fmt.Errorf("audio.sample_rate: %w", err))
		}
	}
	if c.Limits.MaxClipSeconds < 0 {
		errs = append(errs, fmt.Errorf("limits.max_clip_seconds: must not be negative, got %g", c.Limits.MaxClipSeconds))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: %q is not console or json", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// AudioFormat returns the configured output format, or the default
func (c *Config) AudioFormat() clip.Format {
	f, err := clip.ParseFormat(c.Audio.Format)
	if err != nil {
		return clip.DefaultFormat
	}
	return f
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
