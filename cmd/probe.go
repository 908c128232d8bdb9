package cmd

import (
	"context"
	"fmt"
	"strconv"

	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/ffmpeg"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var probeSourcePath string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show the duration and streams of a media file",
	Long: `Run ffprobe against a media file and show its duration, container and
streams. Use it to pick start and end times that lie inside the source.

Example:
  audio-clip-extractor probe --source sample.mkv`,
	Args: noArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringVar(&probeSourcePath, "source", "", "Path to media file or directory (required)")
}

// MediaProber inspects a media file
type MediaProber interface {
	Probe(ctx context.Context, path string) (ffmpeg.ProbeResult, error)
}

func runProbe(cmd *cobra.Command, args []string) error {
	if probeSourcePath == "" {
		return usageError("--source is required")
	}
	sourcePath, err := resolveSource(probeSourcePath)
	if err != nil {
		return err
	}

	prober := newProber(GetConfig())
	if err := verifyTools(cmd.Context(), prober); err != nil {
		return err
	}

	return RunProbeWithDependencies(cmd.Context(), prober, sourcePath, cmd.OutOrStdout())
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(ctx context.Context, prober MediaProber, sourcePath string, output OutputWriter) error {
	result, err := prober.Probe(ctx, sourcePath)
	if err != nil {
		return err
	}

	duration := result.DurationSeconds()
	summary := table.NewWriter()
	summary.SetOutputMirror(output)
	summary.SetStyle(table.StyleLight)
	summary.AppendRows([]table.Row{
		{"File", sourcePath},
		{"Container", dash(result.Format.FormatName)},
		{"Duration", fmt.Sprintf("%s (%s s)", clip.FormatSeconds(duration), strconv.FormatFloat(duration, 'f', 3, 64))},
		{"Size", humanize.Bytes(uint64(result.SizeBytes()))},
		{"Audio streams", len(result.AudioStreams())},
		{"Video streams", result.VideoStreamCount()},
	})
	summary.Render()

	if len(result.Streams) == 0 {
		return nil
	}

	streams := table.NewWriter()
	streams.SetOutputMirror(output)
	streams.SetStyle(table.StyleLight)
	streams.AppendHeader(table.Row{"#", "Type", "Codec", "Details"})
	for _, s := range result.Streams {
		streams.AppendRow(table.Row{s.Index, s.CodecType, dash(s.CodecName), streamDetails(s)})
	}
	streams.Render()

	if len(result.AudioStreams()) == 0 {
		fmt.Fprintln(output, "Warning: no audio stream; extraction will fail.")
	}
	return nil
}

func streamDetails(s ffmpeg.ProbeStream) string {
	switch s.CodecType {
	case "audio":
		return fmt.Sprintf("%s Hz, %d ch", dash(s.SampleRate), s.Channels)
	case "video":
		return fmt.Sprintf("%dx%d", s.Width, s.Height)
	}
	return ""
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
