package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"audio-clip-extractor/infrastructure/config"
	"audio-clip-extractor/infrastructure/filesystem"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration settings",
	Long: `Show the effective settings or change one of them in the configuration file.

Examples:
  audio-clip-extractor config show
  audio-clip-extractor config set audio.format mp3
  audio-clip-extractor config set limits.max_clip_seconds 20

Keys: paths.output_directory, audio.format, audio.sample_rate, audio.bitrate,
limits.max_clip_seconds, ffmpeg.ffmpeg_path, ffmpeg.ffprobe_path,
ffmpeg.log_level, logging.level, logging.format`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigShowWithDependencies(GetConfig(), cfgFile, DefaultOutput)
	},
}

// RunConfigShowWithDependencies runs the show command with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(configPath)
	t.AppendHeader(table.Row{"Key", "Value"})
	for _, s := range mgr.List() {
		t.AppendRow(table.Row{s.Key, s.Value})
	}
	t.Render()
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the configuration file",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return usageError("config set needs a key and a value, got %d argument(s)", len(args))
		}
		return nil
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigSetWithDependencies(GetConfig(), cfgFile, args[0], args[1], DefaultOutput)
	},
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	if err := filesystem.EnsureDir(filepath.Dir(configPath)); err != nil {
		return err
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.Set(key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			return fmt.Errorf("%w: %v (valid keys: %s)", ErrUsage, err, strings.Join(config.Keys(), ", "))
		}
		if errors.Is(err, config.ErrInvalidValue) {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return err
	}

	current, _ := mgr.Get(key)
	fmt.Fprintf(out, "Set %s = %s in %s\n", key, current, configPath)
	return nil
}
