package clip

import (
	"fmt"
	"slices"
	"strings"
)

// Format is an audio container/codec pair the extractor can write
type Format string

const (
	FormatMP3 Format = "MP3"
	FormatWAV Format = "WAV"
)

// DefaultFormat matches the interactive tool's initial selection
const DefaultFormat = FormatWAV

// DefaultSampleRate is the sample rate used when none is configured
const DefaultSampleRate = 22050

// DefaultMP3Bitrate is passed to the MP3 encoder when no bitrate is configured
const DefaultMP3Bitrate = "192k"

// SupportedFormats lists formats in the order they are offered to users
var SupportedFormats = []Format{FormatMP3, FormatWAV}

// SupportedSampleRates lists the sample rates offered by the interactive form
var SupportedSampleRates = []int{8000, 11025, 16000, 22050, 44100, 48000}

// ParseFormat parses a format name case-insensitively, with or without a leading dot
func ParseFormat(s string) (Format, error) {
	name := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "."))
	for _, f := range SupportedFormats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected MP3 or WAV)", ErrUnsupportedFormat, s)
}

// Extension returns the lowercase file extension without the dot
func (f Format) Extension() string {
	return strings.ToLower(string(f))
}

// Codec returns the ffmpeg audio encoder for the format
func (f Format) Codec() string {
	switch f {
	case FormatMP3:
		return "libmp3lame"
	case FormatWAV:
		return "pcm_s16le"
	}
	return ""
}

// Muxer returns the ffmpeg output muxer name for the format
func (f Format) Muxer() string {
	return f.Extension()
}

// FrameSamples returns the number of samples in one encoder frame.
// PCM has no framing, so WAV output is sample-accurate.
func (f Format) FrameSamples() int {
	if f == FormatMP3 {
		return 1152
	}
	return 1
}

// String implements fmt.Stringer
func (f Format) String() string {
	return string(f)
}

// ValidateSampleRate checks that rate is positive. When strict is set the rate
// must also be one of SupportedSampleRates.
func ValidateSampleRate(rate int, strict bool) error {
	if rate <= 0 {
		return fmt.Errorf("%w: %d Hz must be positive", ErrInvalidSampleRate, rate)
	}
	if strict && !slices.Contains(SupportedSampleRates, rate) {
		return fmt.Errorf("%w: %d Hz is not one of %v", ErrInvalidSampleRate, rate, SupportedSampleRates)
	}
	return nil
}
