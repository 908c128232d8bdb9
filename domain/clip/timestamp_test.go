package clip

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Timestamp
		wantErr bool
		errMsg  string
	}{
		{
			name:  "valid timestamp",
			input: "01:30:45",
			want:  Timestamp{Hours: 1, Minutes: 30, Seconds: 45},
		},
		{
			name:  "all zeros",
			input: "00:00:00",
			want:  Timestamp{},
		},
		{
			name:  "large hours value",
			input: "99:00:00",
			want:  Timestamp{Hours: 99},
		},
		{
			name:  "surrounding spaces",
			input: " 00:19:50 ",
			want:  Timestamp{Minutes: 19, Seconds: 50},
		},
		{
			name:    "missing leading zero in hours",
			input:   "1:30:45",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "wrong separator - dash",
			input:   "01-30-45",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "minutes too high",
			input:   "01:60:00",
			wantErr: true,
			errMsg:  "minutes must be 0-59",
		},
		{
			name:    "seconds too high",
			input:   "01:30:60",
			wantErr: true,
			errMsg:  "seconds must be 0-59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error, got nil", tt.input)
					return
				}
				if !errors.Is(err, ErrMalformedNumber) {
					t.Errorf("ParseTimestamp(%q) error = %v, want ErrMalformedNumber", tt.input, err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseTimestamp(%q) error = %v, want error containing %q", tt.input, err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
				return
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromMinutesSeconds(t *testing.T) {
	tests := []struct {
		name      string
		minutes   int
		seconds   int
		wantTotal int
		wantErr   bool
	}{
		{name: "zero", minutes: 0, seconds: 0, wantTotal: 0},
		{name: "nineteen fifty", minutes: 19, seconds: 50, wantTotal: 1190},
		{name: "seconds overflow minutes", minutes: 1, seconds: 75, wantTotal: 135},
		{name: "hours worth of minutes", minutes: 125, seconds: 0, wantTotal: 7500},
		{name: "negative minutes", minutes: -1, seconds: 0, wantErr: true},
		{name: "negative seconds", minutes: 0, seconds: -5, wantErr: true},
		{name: "minutes overflow int", minutes: math.MaxInt / 30, seconds: 0, wantErr: true},
		{name: "seconds push total past int", minutes: math.MaxInt / 60, seconds: 59, wantErr: true},
		{name: "largest total", minutes: (math.MaxInt - 7) / 60, seconds: 7, wantTotal: (math.MaxInt-7)/60*60 + 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromMinutesSeconds(tt.minutes, tt.seconds)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedNumber) {
					t.Errorf("FromMinutesSeconds() error = %v, want ErrMalformedNumber", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromMinutesSeconds() unexpected error: %v", err)
			}
			if got.TotalSeconds() != tt.wantTotal {
				t.Errorf("FromMinutesSeconds() total = %d, want %d", got.TotalSeconds(), tt.wantTotal)
			}
			if got.Minutes > 59 || got.Seconds > 59 {
				t.Errorf("FromMinutesSeconds() = %+v, want normalized fields", got)
			}
		})
	}
}

func TestTimestamp_String(t *testing.T) {
	tests := []struct {
		timestamp Timestamp
		want      string
	}{
		{Timestamp{0, 0, 0}, "00:00:00"},
		{Timestamp{1, 2, 3}, "01:02:03"},
		{Timestamp{99, 59, 59}, "99:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.timestamp.String(); got != tt.want {
				t.Errorf("Timestamp.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "1190", want: 1190},
		{input: " 12.5 ", want: 12.5},
		{input: "0", want: 0},
		{input: "19:50", want: 1190},
		{input: "00:20:07", want: 1207},
		{input: "01:00:00.250", want: 3600.25},
		{input: "90:00", want: 5400},
		{input: "", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "Inf", wantErr: true},
		{input: "01:60:00", wantErr: true},
		{input: "00:00:60", wantErr: true},
		{input: "1:2:3:4", wantErr: true},
		{input: "-01:00", wantErr: true},
		{input: "9999999999999999999:00:00", wantErr: true},
		{input: "3000000000000000:00:00", wantErr: true},
		{input: "00:99999999999999999999:00", wantErr: true},
		{input: "99999999999999999999:00", wantErr: true},
		{input: "1e30", wantErr: true},
		{input: "9300000000", wantErr: true},
		{input: "2562047:00:00", want: 2562047 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeconds(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedNumber) {
					t.Errorf("ParseSeconds(%q) error = %v, want ErrMalformedNumber", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeconds(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSeconds(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "00:00:00.000"},
		{17, "00:00:17.000"},
		{1190, "00:19:50.000"},
		{3600.25, "01:00:00.250"},
		{-3, "00:00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSeconds(tt.input); got != tt.want {
				t.Errorf("FormatSeconds(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
