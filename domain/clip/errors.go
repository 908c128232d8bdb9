package clip

import "errors"

var (
	// ErrFileNotFound is returned when the source path does not exist
	ErrFileNotFound = errors.New("source file does not exist")

	// ErrSourceNotReadable is returned when the source exists but cannot be opened for reading
	ErrSourceNotReadable = errors.New("source file is not readable")

	// ErrMalformedNumber is returned when a start or end time is not a non-negative number
	ErrMalformedNumber = errors.New("malformed time value")

	// ErrEmptyOrInvertedRange is returned when end time is not after start time
	ErrEmptyOrInvertedRange = errors.New("end time must be after start time")

	// ErrRangeTooLong is returned when the clip window exceeds the configured maximum
	ErrRangeTooLong = errors.New("clip is longer than the allowed maximum")

	// ErrRangeExceedsSourceDuration is returned when the window runs past the end of the source
	ErrRangeExceedsSourceDuration = errors.New("time range exceeds source duration")

	// ErrSourceUnreadable is returned when the source container cannot be decoded or has no duration
	ErrSourceUnreadable = errors.New("source media could not be read")

	// ErrNoAudioStream is returned when the source has no audio track
	ErrNoAudioStream = errors.New("source has no audio stream")

	// ErrExtractionFailed is returned for codec, write and permission failures during export
	ErrExtractionFailed = errors.New("audio extraction failed")

	// ErrUnsupportedFormat is returned for output formats other than MP3 and WAV
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrInvalidSampleRate is returned for non-positive or disallowed sample rates
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrExtractionInProgress is returned when another extraction already owns the output
	ErrExtractionInProgress = errors.New("another extraction is already in progress")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrFileNotFound, "FileNotFound"},
	{ErrSourceNotReadable, "SourceNotReadable"},
	{ErrMalformedNumber, "MalformedNumber"},
	{ErrEmptyOrInvertedRange, "EmptyOrInvertedRange"},
	{ErrRangeTooLong, "RangeTooLong"},
	{ErrRangeExceedsSourceDuration, "RangeExceedsSourceDuration"},
	{ErrSourceUnreadable, "SourceUnreadable"},
	{ErrNoAudioStream, "NoAudioStream"},
	{ErrExtractionFailed, "ExtractionFailure"},
	{ErrUnsupportedFormat, "UnsupportedFormat"},
	{ErrInvalidSampleRate, "InvalidSampleRate"},
	{ErrExtractionInProgress, "ExtractionInProgress"},
}

// Kind returns a stable name for the error category of err, or "" when err
// does not wrap one of the package sentinels.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
