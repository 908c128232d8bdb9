package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"audio-clip-extractor/infrastructure/config"
	"audio-clip-extractor/infrastructure/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "audio-clip-extractor",
	Short: "Extract short audio clips from video files",
	Long: `audio-clip-extractor cuts a time range out of a video's audio track and
saves it as MP3 or WAV using ffmpeg.

  - extract:     one clip from flags, for scripts
  - interactive: guided prompts, clips up to 20 seconds
  - timestamp:   convert minutes and seconds to total seconds
  - probe:       show what ffprobe sees in a file

Example:
  audio-clip-extractor extract --source recording.mkv --start 1190 --end 1207 --format mp3`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command and exits with a code describing the outcome
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError("%v", err)
	})
}

// initConfig loads .env, the optional config file and environment overrides,
// then builds the logger.
func initConfig(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	loaded, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	loaded.ApplyEnv(os.Getenv)
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", cfgFile, err)
	}
	cfg = loaded

	logger, err = logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	return err
}

// GetConfig returns the loaded configuration, or defaults before loading
func GetConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// GetLogger returns the configured logger
func GetLogger() *slog.Logger {
	if logger == nil {
		return logging.NewNop()
	}
	return logger
}
