package clip

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timestamp represents a position in a media file in whole seconds
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
}

// timestampRegex matches HH:MM:SS format
var timestampRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

// clockRegex matches [HH:]MM:SS[.fff]
var clockRegex = regexp.MustCompile(`^(?:(\d+):)?(\d+):(\d+(?:\.\d+)?)$`)

// MaxPositionSeconds is the largest position that still fits a time.Duration
const MaxPositionSeconds = float64(math.MaxInt64 / int64(time.Second))

// ParseTimestamp parses a timestamp string in HH:MM:SS format
func ParseTimestamp(s string) (Timestamp, error) {
	matches := timestampRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return Timestamp{}, fmt.Errorf("%w: invalid timestamp format %q: expected HH:MM:SS", ErrMalformedNumber, s)
	}

	var fields [3]int
	for i, m := range matches[1:] {
		n, err := strconv.Atoi(m)
		if err != nil {
			return Timestamp{}, fmt.Errorf("%w: invalid timestamp %q: %v", ErrMalformedNumber, s, err)
		}
		fields[i] = n
	}

	ts := Timestamp{Hours: fields[0], Minutes: fields[1], Seconds: fields[2]}
	if ts.Minutes > 59 {
		return Timestamp{}, fmt.Errorf("%w: invalid timestamp %q: minutes must be 0-59", ErrMalformedNumber, s)
	}
	if ts.Seconds > 59 {
		return Timestamp{}, fmt.Errorf("%w: invalid timestamp %q: seconds must be 0-59", ErrMalformedNumber, s)
	}
	return ts, nil
}

// FromMinutesSeconds converts a minutes and seconds pair into a Timestamp.
// Seconds may exceed 59; the result is normalized.
func FromMinutesSeconds(minutes, seconds int) (Timestamp, error) {
	if minutes < 0 || seconds < 0 {
		return Timestamp{}, fmt.Errorf("%w: negative values are not allowed", ErrMalformedNumber)
	}
	if minutes > (math.MaxInt-seconds)/60 {
		return Timestamp{}, fmt.Errorf("%w: %d minutes and %d seconds is out of range", ErrMalformedNumber, minutes, seconds)
	}
	return FromSeconds(minutes*60 + seconds), nil
}

// FromSeconds builds a normalized Timestamp from a total second count
func FromSeconds(total int) Timestamp {
	if total < 0 {
		total = 0
	}
	return Timestamp{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// String returns the timestamp in HH:MM:SS format
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the timestamp as total seconds
func (t Timestamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// ParseSeconds parses a time position typed by a user. Accepted forms are a
// plain decimal number of seconds ("1190", "12.5"), MM:SS and HH:MM:SS with
// optional fractional seconds. The result is finite, non-negative and at most
// MaxPositionSeconds.
func ParseSeconds(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedNumber)
	}

	if !strings.Contains(trimmed, ":") {
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedNumber, s)
		}
		if v < 0 {
			return 0, fmt.Errorf("%w: %q is negative", ErrMalformedNumber, s)
		}
		return checkPosition(s, v)
	}

	matches := clockRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q: expected seconds, MM:SS or HH:MM:SS", ErrMalformedNumber, s)
	}

	hours := 0
	if matches[1] != "" {
		h, err := strconv.Atoi(matches[1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q: hours out of range", ErrMalformedNumber, s)
		}
		hours = h
	}
	minutes, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: minutes out of range", ErrMalformedNumber, s)
	}
	seconds, err := strconv.ParseFloat(matches[3], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: seconds out of range", ErrMalformedNumber, s)
	}

	if matches[1] != "" && minutes > 59 {
		return 0, fmt.Errorf("%w: %q: minutes must be 0-59", ErrMalformedNumber, s)
	}
	if seconds >= 60 {
		return 0, fmt.Errorf("%w: %q: seconds must be 0-59", ErrMalformedNumber, s)
	}

	return checkPosition(s, float64(hours)*3600+float64(minutes)*60+seconds)
}

func checkPosition(s string, v float64) (float64, error) {
	if v > MaxPositionSeconds {
		return 0, fmt.Errorf("%w: %q is out of range", ErrMalformedNumber, s)
	}
	return v, nil
}

// FormatSeconds renders seconds as HH:MM:SS.mmm, the form ffmpeg accepts for -ss and -t
func FormatSeconds(v float64) string {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	ms := int64(math.Round(v * 1000))
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	sec := (ms % 60_000) / 1000
	frac := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, sec, frac)
}
