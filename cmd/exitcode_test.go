package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/ffmpeg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"unclassified", errors.New("boom"), ExitGeneral},
		{"usage", usageError("--source is required"), ExitUsage},
		{"setup", fmt.Errorf("%w: ffmpeg not found", ErrSetup), ExitSetup},
		{"interrupted", fmt.Errorf("%w: prompt cancelled", ErrInterrupted), ExitInterrupted},
		{"context canceled", context.Canceled, ExitInterrupted},
		{"cancelled extraction", fmt.Errorf("%w: %w", clip.ErrExtractionFailed, context.Canceled), ExitInterrupted},
		{"file not found", fmt.Errorf("%w: /x.mkv", clip.ErrFileNotFound), ExitFileNotFound},
		{"not readable", clip.ErrSourceNotReadable, ExitSourceNotReadable},
		{"malformed", fmt.Errorf("invalid input: %w", clip.ErrMalformedNumber), ExitMalformedNumber},
		{"inverted", clip.ErrEmptyOrInvertedRange, ExitEmptyOrInvertedRange},
		{"too long", clip.ErrRangeTooLong, ExitRangeTooLong},
		{"past end", clip.ErrRangeExceedsSourceDuration, ExitRangeExceedsSourceDuration},
		{"unreadable", clip.ErrSourceUnreadable, ExitSourceUnreadable},
		{"no audio", clip.ErrNoAudioStream, ExitNoAudioStream},
		{"extraction failed", clip.ErrExtractionFailed, ExitExtractionFailure},
		{"in progress", clip.ErrExtractionInProgress, ExitExtractionInProgress},
		{"format", clip.ErrUnsupportedFormat, ExitUsage},
		{"sample rate", clip.ErrInvalidSampleRate, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitCode_DistinctPerKind(t *testing.T) {
	seen := make(map[int]string)
	for _, e := range exitCodes {
		if e.code == ExitUsage || e.code == ExitInterrupted {
			continue
		}
		if prev, ok := seen[e.code]; ok {
			t.Fatalf("exit code %d shared by %v and %s", e.code, e.err, prev)
		}
		seen[e.code] = e.err.Error()
	}
}

// failingRunner stands in for an ffmpeg process killed by a cancelled context
type failingRunner struct{}

func (failingRunner) Run(ctx context.Context, name string, args ...string) error {
	return errors.New("signal: killed")
}

func (failingRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, errors.New("signal: killed")
}

func (failingRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	return errors.New("signal: killed")
}

type stubSource struct{}

func (stubSource) Path() string      { return "/videos/sample.mkv" }
func (stubSource) Duration() float64 { return 600 }
func (stubSource) HasAudio() bool    { return true }
func (stubSource) Close() error      { return nil }

func TestExitCode_CancelledEncodeIsInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	encoder := ffmpeg.NewExtractor(ffmpeg.WithExtractorCommandRunner(failingRunner{}))
	req := &clip.ExtractionRequest{
		SourcePath:   "/videos/sample.mkv",
		Window:       clip.Window{Start: 1190, End: 1207},
		Format:       clip.FormatMP3,
		SampleRateHz: 44100,
	}

	err := encoder.Encode(ctx, stubSource{}, req, "out.mp3.part", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, clip.ErrExtractionFailed)
	assert.Equal(t, ExitInterrupted, ExitCode(err))
}
