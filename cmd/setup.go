package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(result), nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, promptError(err)
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", promptError(err)
	}
	return result, nil
}

// promptError maps Ctrl-C to ErrInterrupted
func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return fmt.Errorf("%w: prompt cancelled", ErrInterrupted)
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing where clips are saved, the default
output format and sample rate, the clip length limit and the ffmpeg tools.`,
	Args: noArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, cmd.OutOrStdout())
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to audio-clip-extractor setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptPaths(prompter, cfg); err != nil {
		return err
	}
	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}
	if err := promptLimits(prompter, cfg); err != nil {
		return err
	}
	if err := promptFFmpeg(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptPaths(prompter Prompter, cfg *config.Config) error {
	dir, err := prompter.Input("Where should extracted clips go?", cfg.Paths.OutputDirectory)
	if err != nil {
		return err
	}
	if dir == "" {
		return fmt.Errorf("output directory is required")
	}
	cfg.Paths.OutputDirectory = dir
	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	format, err := prompter.Select("Default output format?", formatOptions(), cfg.Audio.Format)
	if err != nil {
		return err
	}
	cfg.Audio.Format = format

	rate, err := prompter.Select("Default sample rate (Hz)?", sampleRateOptions(), strconv.Itoa(cfg.Audio.SampleRate))
	if err != nil {
		return err
	}
	cfg.Audio.SampleRate, err = strconv.Atoi(rate)
	if err != nil {
		return fmt.Errorf("invalid sample rate %q", rate)
	}

	if format == string(clip.FormatMP3) {
		bitrate, err := prompter.Input("Audio bitrate for mp3 extraction?", cfg.Audio.Bitrate)
		if err != nil {
			return err
		}
		if bitrate != "" {
			cfg.Audio.Bitrate = bitrate
		}
	}
	return nil
}

func promptLimits(prompter Prompter, cfg *config.Config) error {
	value, err := prompter.Input("Maximum clip length in seconds (0 for no limit)?", "0")
	if err != nil {
		return err
	}
	if value == "" {
		value = "0"
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return fmt.Errorf("%w: clip limit %q must be a non-negative number", clip.ErrMalformedNumber, value)
	}
	cfg.Limits.MaxClipSeconds = seconds
	return nil
}

func promptFFmpeg(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg?", cfg.FFmpeg.FFmpegPath)
	if err != nil {
		return err
	}
	if ffmpegPath != "" {
		cfg.FFmpeg.FFmpegPath = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe?", cfg.FFmpeg.FFprobePath)
	if err != nil {
		return err
	}
	if ffprobePath != "" {
		cfg.FFmpeg.FFprobePath = ffprobePath
	}
	return nil
}

func formatOptions() []string {
	options := make([]string, 0, len(clip.SupportedFormats))
	for _, f := range clip.SupportedFormats {
		options = append(options, string(f))
	}
	return options
}

func sampleRateOptions() []string {
	options := make([]string, 0, len(clip.SupportedSampleRates))
	for _, r := range clip.SupportedSampleRates {
		options = append(options, strconv.Itoa(r))
	}
	return options
}
