package clip

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"
)

// OutputTimeLayout is the capture timestamp layout embedded in generated filenames
const OutputTimeLayout = "01-02-2006_15-04-05"

// InteractiveMaxClipSeconds is the clip length limit applied to the interactive tool
const InteractiveMaxClipSeconds = 20

// Input holds extraction parameters as supplied by a caller, before validation
type Input struct {
	SourcePath   string
	StartTime    string // seconds, MM:SS or HH:MM:SS
	EndTime      string // seconds, MM:SS or HH:MM:SS
	OutputPath   string // Optional: explicit output file, overwritten if present
	OutputDir    string // Used with a generated, timestamped name when OutputPath is empty
	Format       Format
	SampleRateHz int
	Bitrate      string // MP3 only
}

// Window is the half-open interval [Start, End) in seconds
type Window struct {
	Start float64
	End   float64
}

// Length returns the window duration in seconds
func (w Window) Length() float64 {
	return w.End - w.Start
}

// Duration returns the window length as a time.Duration
func (w Window) Duration() time.Duration {
	return time.Duration(w.Length() * float64(time.Second))
}

// String renders the window with HH:MM:SS.mmm bounds
func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", FormatSeconds(w.Start), FormatSeconds(w.End))
}

// Policy holds configurable limits applied during validation
type Policy struct {
	// MaxClipSeconds bounds the window length; zero means unbounded
	MaxClipSeconds float64
	// StrictSampleRates restricts sample rates to SupportedSampleRates
	StrictSampleRates bool
}

// InteractivePolicy is the policy of the interactive tool
var InteractivePolicy = Policy{MaxClipSeconds: InteractiveMaxClipSeconds, StrictSampleRates: true}

// ExtractionRequest is a validated request to extract one audio clip
type ExtractionRequest struct {
	SourcePath   string
	Window       Window
	OutputPath   string
	Format       Format
	SampleRateHz int
	Bitrate      string
}

// Tolerance returns the allowed deviation between the requested window and
// the produced clip duration: one encoder frame at the output sample rate.
func (r *ExtractionRequest) Tolerance() float64 {
	if r.SampleRateHz <= 0 {
		return 0
	}
	return float64(r.Format.FrameSamples()) / float64(r.SampleRateHz)
}

// OutputFilename returns the generated output name for a window, e.g.
// extracted_audio_1190.0_1207.0_03-14-2025_09-26-53.mp3
func OutputFilename(w Window, format Format, now time.Time) string {
	return fmt.Sprintf("extracted_audio_%s_%s_%s.%s",
		formatNumber(w.Start), formatNumber(w.End), now.Format(OutputTimeLayout), format.Extension())
}

// ResolveOutputPath picks the final output path. An explicit path wins;
// otherwise a timestamped name is generated inside dir.
func ResolveOutputPath(explicit, dir string, w Window, format Format, now time.Time) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(dir, OutputFilename(w, format, now))
}

// formatNumber renders seconds the way the filenames have always shown them:
// integral values keep one decimal place ("1190.0"), others print as-is ("12.5").
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
