package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"audio-clip-extractor/domain/clip"

	"github.com/spf13/cobra"
)

var (
	timestampMinutes string
	timestampSeconds string
	timestampClock   string
)

var timestampCmd = &cobra.Command{
	Use:   "timestamp",
	Short: "Convert minutes and seconds to total seconds",
	Long: `Convert a minutes and seconds pair into a total second count, ready to use
as --start or --end.

--clock accepts a position read off a player as HH:MM:SS instead.

Example:
  audio-clip-extractor timestamp --minutes 19 --seconds 50
  Total seconds: 1190
  audio-clip-extractor timestamp --clock 00:20:07
  Total seconds: 1207`,
	Args: noArgs,
	RunE: runTimestamp,
}

func init() {
	rootCmd.AddCommand(timestampCmd)
	timestampCmd.Flags().StringVar(&timestampMinutes, "minutes", "0", "Whole minutes")
	timestampCmd.Flags().StringVar(&timestampSeconds, "seconds", "0", "Whole seconds")
	timestampCmd.Flags().StringVar(&timestampClock, "clock", "", "Position as HH:MM:SS")
}

func runTimestamp(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("clock") {
		if cmd.Flags().Changed("minutes") || cmd.Flags().Changed("seconds") {
			return usageError("--clock cannot be combined with --minutes or --seconds")
		}
		return RunClockWithDependencies(timestampClock, cmd.OutOrStdout())
	}
	return RunTimestampWithDependencies(timestampMinutes, timestampSeconds, cmd.OutOrStdout())
}

// RunClockWithDependencies converts an HH:MM:SS position (for testing)
func RunClockWithDependencies(clock string, output OutputWriter) error {
	ts, err := clip.ParseTimestamp(clock)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	fmt.Fprintf(output, "Total seconds: %d\n", ts.TotalSeconds())
	return nil
}

// RunTimestampWithDependencies runs the timestamp command with injected dependencies (for testing)
func RunTimestampWithDependencies(minutes, seconds string, output OutputWriter) error {
	m, err := parseWhole("minutes", minutes)
	if err != nil {
		return err
	}
	s, err := parseWhole("seconds", seconds)
	if err != nil {
		return err
	}

	ts, err := clip.FromMinutesSeconds(m, s)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	fmt.Fprintf(output, "Total seconds: %d\n", ts.TotalSeconds())
	return nil
}

func parseWhole(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid input: %w: %s must be a whole number, got %q", clip.ErrMalformedNumber, name, value)
	}
	return n, nil
}
