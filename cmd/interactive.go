package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	appclip "audio-clip-extractor/application/clip"
	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/filesystem"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// pollInterval is how often the interactive form checks on a running extraction
const pollInterval = 100 * time.Millisecond

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Extract clips through guided prompts",
	Long: `Prompts for a video file, an output folder, start and end times in seconds,
the output format and the sample rate, then extracts the clip in the
background while showing progress. Clips are limited to 20 seconds.

Run it again or answer yes to "Extract another clip?" to continue.`,
	Args: noArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// InteractiveDefaults pre-fill the form
type InteractiveDefaults struct {
	SourcePath   string
	OutputDir    string
	Format       clip.Format
	SampleRateHz int
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin.Fd()) {
		return usageError("interactive mode needs a terminal; use the extract command instead")
	}

	c := GetConfig()
	service, err := buildExtractService(cmd.Context(), c, clip.InteractivePolicy)
	if err != nil {
		return err
	}

	defaults := InteractiveDefaults{
		OutputDir:    c.Paths.OutputDirectory,
		Format:       c.AudioFormat(),
		SampleRateHz: c.Audio.SampleRate,
	}
	if wd, err := os.Getwd(); err == nil {
		if newest, err := filesystem.FindNewestVideo(wd); err == nil {
			defaults.SourcePath = newest
		}
	}

	return RunInteractiveWithDependencies(
		cmd.Context(),
		DefaultPrompter,
		appclip.NewRunner(service),
		defaults,
		func(description string) ProgressRenderer { return newProgressRenderer(os.Stderr, description) },
		cmd.OutOrStdout(),
	)
}

// RunInteractiveWithDependencies runs the interactive form with injected dependencies (for testing).
// Extraction errors are reported and the form continues; only a cancelled prompt ends it with an error.
func RunInteractiveWithDependencies(
	ctx context.Context,
	prompter Prompter,
	runner *appclip.Runner,
	defaults InteractiveDefaults,
	newProgress func(description string) ProgressRenderer,
	output OutputWriter,
) error {
	if newProgress == nil {
		newProgress = func(string) ProgressRenderer { return noProgress{} }
	}

	for {
		in, err := promptClip(prompter, defaults)
		if err != nil {
			return err
		}

		task, err := runner.Submit(ctx, in)
		if err != nil {
			fmt.Fprintf(output, "Error: %v\n", err)
		} else {
			result, err := awaitTask(ctx, task, newProgress("Extracting"))
			switch {
			case errors.Is(err, context.Canceled):
				return err
			case err != nil:
				fmt.Fprintf(output, "Error: %s\n", describeError(err))
			default:
				fmt.Fprintf(output, "Success: audio extraction completed.\n  %s (%s)\n",
					result.OutputPath, humanize.Bytes(uint64(result.SizeBytes)))
				defaults = rememberAnswers(in)
			}
		}

		again, err := prompter.Confirm("Extract another clip?", true)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func promptClip(prompter Prompter, defaults InteractiveDefaults) (clip.Input, error) {
	var in clip.Input
	var err error

	if in.SourcePath, err = prompter.Input("Video file:", defaults.SourcePath); err != nil {
		return in, err
	}
	if info, statErr := os.Stat(in.SourcePath); statErr == nil && info.IsDir() {
		if newest, findErr := filesystem.FindNewestVideo(in.SourcePath); findErr == nil {
			in.SourcePath = newest
		}
	}
	if in.OutputDir, err = prompter.Input("Output folder:", defaults.OutputDir); err != nil {
		return in, err
	}
	if in.StartTime, err = prompter.Input("Start time (seconds):", ""); err != nil {
		return in, err
	}
	if in.EndTime, err = prompter.Input("End time (seconds):", ""); err != nil {
		return in, err
	}

	format, err := prompter.Select("Output format:", formatOptions(), string(defaultFormat(defaults.Format)))
	if err != nil {
		return in, err
	}
	in.Format = clip.Format(format)

	rate := defaults.SampleRateHz
	if rate == 0 {
		rate = clip.DefaultSampleRate
	}
	selected, err := prompter.Select("Sample rate (Hz):", sampleRateOptions(), strconv.Itoa(rate))
	if err != nil {
		return in, err
	}
	if in.SampleRateHz, err = strconv.Atoi(selected); err != nil {
		return in, fmt.Errorf("%w: sample rate %q", clip.ErrInvalidSampleRate, selected)
	}

	return in, nil
}

// awaitTask polls the task until it finishes, rendering its progress
func awaitTask(ctx context.Context, task *appclip.Task, progress ProgressRenderer) (*appclip.Result, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	defer progress.Finish()

	events := task.Progress()
	for {
		select {
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			progress.Update(e)
		case <-ticker.C:
			if task.Finished() {
				return task.Wait()
			}
		case <-ctx.Done():
			// the extraction runs to completion; wait for it so the source is released
			_, _ = task.Wait()
			return nil, ctx.Err()
		}
	}
}

// describeError turns validation failures into the messages the form has always shown
func describeError(err error) string {
	switch clip.Kind(err) {
	case "EmptyOrInvertedRange":
		return "End time must be after start time."
	case "RangeTooLong":
		return fmt.Sprintf("You can't extract audio longer than %d seconds.", clip.InteractiveMaxClipSeconds)
	case "MalformedNumber":
		return "Please enter valid numeric values for start and end times."
	case "FileNotFound":
		return "Please select both a video file and an output folder."
	case "RangeExceedsSourceDuration":
		return "The start or end time is out of the video's duration."
	}
	return fmt.Sprintf("An error occurred: %v", err)
}

func rememberAnswers(in clip.Input) InteractiveDefaults {
	return InteractiveDefaults{
		SourcePath:   in.SourcePath,
		OutputDir:    in.OutputDir,
		Format:       in.Format,
		SampleRateHz: in.SampleRateHz,
	}
}

func defaultFormat(f clip.Format) clip.Format {
	if f == "" {
		return clip.DefaultFormat
	}
	return f
}

