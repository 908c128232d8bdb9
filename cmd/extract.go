package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	appclip "audio-clip-extractor/application/clip"
	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/filesystem"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	extractSourcePath     string
	extractOutputPath     string
	extractOutputDir      string
	extractStartTime      string
	extractEndTime        string
	extractFormat         string
	extractSampleRate     int
	extractBitrate        string
	extractMaxClipSeconds float64
	extractVerify         bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract an audio clip from a video file",
	Long: `Extract the audio between --start and --end from a video file.

Times are seconds (1190, 12.5), MM:SS or HH:MM:SS[.fff]. The clip covers
[start, end). Without --output the clip is written to --output-dir (or the
configured output directory) as
extracted_audio_<start>_<end>_<MM-DD-YYYY_HH-MM-SS>.<ext>.

If --source is a directory, the most recently modified video in it is used.

Example:
  audio-clip-extractor extract --source sample.mkv --start 1190 --end 1207
  audio-clip-extractor extract --source sample.mkv --start 19:50 --end 20:07 --format mp3 --sample-rate 44100
  audio-clip-extractor extract --source ~/Videos --start 0 --end 20 --output intro.wav --verify`,
	Args: noArgs,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractSourcePath, "source", "", "Path to source video file or directory (required)")
	extractCmd.Flags().StringVar(&extractOutputPath, "output", "", "Output file; overwritten if it exists")
	extractCmd.Flags().StringVar(&extractOutputDir, "output-dir", "", "Directory for a generated, timestamped filename (default from config)")
	extractCmd.Flags().StringVar(&extractStartTime, "start", "", "Clip start time (required)")
	extractCmd.Flags().StringVar(&extractEndTime, "end", "", "Clip end time (required)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "Output format: mp3 or wav (default from config or wav)")
	extractCmd.Flags().IntVar(&extractSampleRate, "sample-rate", 0, "Output sample rate in Hz (default from config or 22050)")
	extractCmd.Flags().StringVar(&extractBitrate, "bitrate", "", "MP3 bitrate (default from config or 192k)")
	extractCmd.Flags().Float64Var(&extractMaxClipSeconds, "max-clip-seconds", 0, "Reject clips longer than this; 0 means no limit (default from config)")
	extractCmd.Flags().BoolVar(&extractVerify, "verify", false, "Measure the written clip and warn when its length deviates")
}

func runExtract(cmd *cobra.Command, args []string) error {
	c := GetConfig()

	if strings.TrimSpace(extractSourcePath) == "" {
		return usageError("--source is required")
	}
	if extractStartTime == "" || extractEndTime == "" {
		return usageError("--start and --end are required")
	}
	if extractOutputPath != "" && extractOutputDir != "" {
		return usageError("--output and --output-dir cannot be used together")
	}

	sourcePath, err := resolveSource(extractSourcePath)
	if err != nil {
		return err
	}

	policy := clip.Policy{MaxClipSeconds: c.Limits.MaxClipSeconds}
	if cmd.Flags().Changed("max-clip-seconds") {
		policy.MaxClipSeconds = extractMaxClipSeconds
	}

	in := clip.Input{
		SourcePath:   sourcePath,
		StartTime:    extractStartTime,
		EndTime:      extractEndTime,
		OutputPath:   extractOutputPath,
		OutputDir:    extractOutputDir,
		Format:       clip.Format(firstNonEmpty(extractFormat, c.Audio.Format)),
		SampleRateHz: extractSampleRate,
		Bitrate:      firstNonEmpty(extractBitrate, c.Audio.Bitrate),
	}
	if in.SampleRateHz == 0 {
		in.SampleRateHz = c.Audio.SampleRate
	}

	service, err := buildExtractService(cmd.Context(), c, policy)
	if err != nil {
		return err
	}

	return RunExtractWithDependencies(
		cmd.Context(),
		service,
		in,
		extractVerify,
		newProgressRenderer(os.Stderr, "Extracting"),
		cmd.OutOrStdout(),
	)
}

// resolveSource picks the newest video when path is a directory
func resolveSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path, nil
	}
	newest, err := filesystem.FindNewestVideo(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", clip.ErrFileNotFound, err)
	}
	return newest, nil
}

// RunExtractWithDependencies runs the extract command with injected dependencies (for testing)
func RunExtractWithDependencies(
	ctx context.Context,
	extractor appclip.Extractor,
	in clip.Input,
	verify bool,
	progress ProgressRenderer,
	output OutputWriter,
) error {
	if progress == nil {
		progress = noProgress{}
	}

	fmt.Fprintf(output, "Extracting audio from %s (%s to %s)...\n", in.SourcePath, in.StartTime, in.EndTime)

	result, err := extractor.Extract(ctx, in,
		appclip.WithProgress(progress.Update),
		appclip.WithVerify(verify),
	)
	progress.Finish()
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Audio extracted successfully to %s\n", result.OutputPath)
	fmt.Fprintf(output, "  %s, %d Hz, %s, %s\n",
		result.Format, result.SampleRateHz, clip.FormatSeconds(result.Duration.Seconds()), humanize.Bytes(uint64(result.SizeBytes)))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// noArgs rejects positional arguments as a usage error
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError("%q accepts no arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}
