package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-clip-extractor/domain/clip"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
paths:
  output_directory: /srv/clips
audio:
  format: mp3
limits:
  max_clip_seconds: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/clips", cfg.Paths.OutputDirectory)
	assert.Equal(t, clip.FormatMP3, cfg.AudioFormat())
	assert.Equal(t, clip.DefaultSampleRate, cfg.Audio.SampleRate)
	assert.Equal(t, 20.0, cfg.Limits.MaxClipSeconds)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.FFmpegPath)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "audio: [not, a, map"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, found, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)

	_, found, err = LoadOrDefault(writeConfig(t, "limits:\n  max_clip_seconds: 5\n"))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvFFmpegPath: "/opt/ffmpeg/bin/ffmpeg",
		EnvOutputDir:  " /tmp/out ",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpeg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.FFprobePath)
	assert.Equal(t, "/tmp/out", cfg.Paths.OutputDirectory)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Audio.Format = "flac"
	cfg.Audio.SampleRate = -1
	cfg.Limits.MaxClipSeconds = -3
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, clip.ErrUnsupportedFormat)
	assert.ErrorIs(t, err, clip.ErrInvalidSampleRate)
	assert.ErrorContains(t, err, "max_clip_seconds")
	assert.ErrorContains(t, err, "logging.format")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Limits.MaxClipSeconds = 20

	require.NoError(t, Save(cfg, path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigManager_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewConfigManager(cfg, path)

	require.NoError(t, mgr.Set("Audio.Sample_Rate", "44100"))
	require.NoError(t, mgr.Set("limits.max_clip_seconds", "12.5"))

	v, err := mgr.Get("audio.sample_rate")
	require.NoError(t, err)
	assert.Equal(t, "44100", v)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 44100, loaded.Audio.SampleRate)
	assert.Equal(t, 12.5, loaded.Limits.MaxClipSeconds)
}

func TestConfigManager_SetRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	mgr := NewConfigManager(cfg, path)

	assert.ErrorIs(t, mgr.Set("email.from", "x"), ErrUnknownKey)
	assert.ErrorIs(t, mgr.Set("audio.sample_rate", "fast"), ErrInvalidValue)
	assert.ErrorIs(t, mgr.Set("audio.format", "ogg"), ErrInvalidValue)

	assert.Equal(t, string(clip.DefaultFormat), cfg.Audio.Format, "rejected values must not stick")
	assert.NoFileExists(t, path)
}

func TestConfigManager_List(t *testing.T) {
	mgr := NewConfigManager(Default(), "")
	settings := mgr.List()

	require.Len(t, settings, len(Keys()))
	assert.Equal(t, Setting{Key: "paths.output_directory", Value: "."}, settings[0])
}
