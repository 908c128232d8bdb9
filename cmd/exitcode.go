package cmd

import (
	"context"
	"errors"
	"fmt"

	"audio-clip-extractor/domain/clip"
)

// Process exit codes
const (
	ExitOK                         = 0
	ExitGeneral                    = 1
	ExitUsage                      = 2
	ExitSetup                      = 3
	ExitFileNotFound               = 10
	ExitSourceNotReadable          = 11
	ExitMalformedNumber            = 12
	ExitEmptyOrInvertedRange       = 13
	ExitRangeTooLong               = 14
	ExitRangeExceedsSourceDuration = 15
	ExitSourceUnreadable           = 16
	ExitNoAudioStream              = 17
	ExitExtractionFailure          = 18
	ExitExtractionInProgress       = 19
	ExitInterrupted                = 130
)

var (
	// ErrUsage marks invalid flags or arguments
	ErrUsage = errors.New("usage error")
	// ErrSetup marks a missing or broken ffmpeg installation
	ErrSetup = errors.New("setup error")
	// ErrInterrupted is returned when the user cancels a prompt
	ErrInterrupted = errors.New("interrupted")
)

var exitCodes = []struct {
	err  error
	code int
}{
	{ErrInterrupted, ExitInterrupted},
	{context.Canceled, ExitInterrupted},
	{ErrUsage, ExitUsage},
	{ErrSetup, ExitSetup},
	{clip.ErrFileNotFound, ExitFileNotFound},
	{clip.ErrSourceNotReadable, ExitSourceNotReadable},
	{clip.ErrMalformedNumber, ExitMalformedNumber},
	{clip.ErrEmptyOrInvertedRange, ExitEmptyOrInvertedRange},
	{clip.ErrRangeTooLong, ExitRangeTooLong},
	{clip.ErrRangeExceedsSourceDuration, ExitRangeExceedsSourceDuration},
	{clip.ErrSourceUnreadable, ExitSourceUnreadable},
	{clip.ErrNoAudioStream, ExitNoAudioStream},
	{clip.ErrExtractionFailed, ExitExtractionFailure},
	{clip.ErrExtractionInProgress, ExitExtractionInProgress},
	{clip.ErrUnsupportedFormat, ExitUsage},
	{clip.ErrInvalidSampleRate, ExitUsage},
}

// ExitCode maps an error returned by a command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return ExitGeneral
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
