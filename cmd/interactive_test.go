package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	appclip "audio-clip-extractor/application/clip"
	"audio-clip-extractor/domain/clip"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clipAnswers(source, outDir, start, end string) []string {
	return []string{source, outDir, start, end}
}

func TestRunInteractiveWithDependencies_SingleClip(t *testing.T) {
	extractor := &fakeExtractor{
		results: []*appclip.Result{{OutputPath: "/clips/a.wav", SizeBytes: 1500}},
		events:  []appclip.Event{{Fraction: 1, Done: true}},
	}
	prompter := &scriptedPrompter{
		inputs:   clipAnswers("/videos/sample.mkv", "/clips", "1190", "1207"),
		selects:  []string{"WAV", "22050"},
		confirms: []bool{false},
	}
	progress := &recordingProgress{}
	var out bytes.Buffer

	err := RunInteractiveWithDependencies(
		context.Background(),
		prompter,
		appclip.NewRunner(extractor),
		InteractiveDefaults{OutputDir: "/default", SampleRateHz: 22050},
		func(string) ProgressRenderer { return progress },
		&out,
	)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Success: audio extraction completed.")
	assert.Contains(t, out.String(), "/clips/a.wav (1.5 kB)")
	require.Len(t, extractor.inputs, 1)
	assert.Equal(t, clip.Input{
		SourcePath:   "/videos/sample.mkv",
		OutputDir:    "/clips",
		StartTime:    "1190",
		EndTime:      "1207",
		Format:       clip.FormatWAV,
		SampleRateHz: 22050,
	}, extractor.inputs[0])
	assert.Equal(t, []string{"", "/default", "", ""}, prompter.inputDefaults)
	assert.Equal(t, []string{"WAV", "22050"}, prompter.selectDefaults)
	assert.Equal(t, 1, progress.finished)
}

func TestRunInteractiveWithDependencies_ReportsErrorsAndContinues(t *testing.T) {
	extractor := &fakeExtractor{
		errs: []error{
			fmt.Errorf("%w: 21s > 20s", clip.ErrRangeTooLong),
			nil,
		},
	}
	prompter := &scriptedPrompter{
		inputs: append(
			clipAnswers("/videos/sample.mkv", "/clips", "0", "21"),
			clipAnswers("/videos/sample.mkv", "/clips", "0", "20")...,
		),
		selects:  []string{"MP3", "44100", "MP3", "44100"},
		confirms: []bool{true, false},
	}
	var out bytes.Buffer

	err := RunInteractiveWithDependencies(context.Background(), prompter, appclip.NewRunner(extractor),
		InteractiveDefaults{}, nil, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Error: You can't extract audio longer than 20 seconds.")
	assert.Contains(t, out.String(), "Success: audio extraction completed.")
	assert.Len(t, extractor.inputs, 2)
}

func TestRunInteractiveWithDependencies_RemembersAnswers(t *testing.T) {
	prompter := &scriptedPrompter{
		inputs: append(
			clipAnswers("/videos/sample.mkv", "/clips", "0", "5"),
			clipAnswers("/videos/sample.mkv", "/clips", "5", "10")...,
		),
		selects:  []string{"MP3", "44100", "MP3", "44100"},
		confirms: []bool{true, false},
	}
	var out bytes.Buffer

	err := RunInteractiveWithDependencies(context.Background(), prompter, appclip.NewRunner(&fakeExtractor{}),
		InteractiveDefaults{}, nil, &out)

	require.NoError(t, err)
	require.Len(t, prompter.inputDefaults, 8)
	assert.Equal(t, "/videos/sample.mkv", prompter.inputDefaults[4])
	assert.Equal(t, "/clips", prompter.inputDefaults[5])
	assert.Equal(t, []string{"WAV", "22050", "MP3", "44100"}, prompter.selectDefaults)
}

func TestRunInteractiveWithDependencies_InterruptedPrompt(t *testing.T) {
	prompter := &scriptedPrompter{
		inputs:     clipAnswers("/videos/sample.mkv", "/clips", "0", "5"),
		selects:    []string{"WAV", "22050"},
		confirmErr: fmt.Errorf("%w: prompt cancelled", ErrInterrupted),
	}
	var out bytes.Buffer

	err := RunInteractiveWithDependencies(context.Background(), prompter, appclip.NewRunner(&fakeExtractor{}),
		InteractiveDefaults{}, nil, &out)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.Equal(t, ExitInterrupted, ExitCode(err))
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{clip.ErrEmptyOrInvertedRange, "End time must be after start time."},
		{clip.ErrRangeTooLong, "You can't extract audio longer than 20 seconds."},
		{fmt.Errorf("%w: \"abc\"", clip.ErrMalformedNumber), "Please enter valid numeric values for start and end times."},
		{clip.ErrFileNotFound, "Please select both a video file and an output folder."},
		{clip.ErrRangeExceedsSourceDuration, "The start or end time is out of the video's duration."},
		{errors.New("disk full"), "An error occurred: disk full"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, describeError(tt.err))
	}
}
