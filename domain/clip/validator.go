package clip

import (
	"fmt"
	"strings"
)

// Validator checks extraction input against file state and a policy
type Validator struct {
	checker FileChecker
	policy  Policy
}

// NewValidator creates a Validator
func NewValidator(checker FileChecker, policy Policy) *Validator {
	return &Validator{checker: checker, policy: policy}
}

// Policy returns the policy the validator enforces
func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate runs every check, including the bound against the source duration.
// Checks run in order and stop at the first failure.
func (v *Validator) Validate(in Input, sourceDurationSeconds float64) (*ExtractionRequest, error) {
	req, err := v.Precheck(in)
	if err != nil {
		return nil, err
	}
	if err := CheckDuration(req, sourceDurationSeconds); err != nil {
		return nil, err
	}
	return req, nil
}

// Precheck runs the checks that do not need the source opened: existence,
// numeric form, ordering, the policy length, then output options.
func (v *Validator) Precheck(in Input) (*ExtractionRequest, error) {
	path := strings.TrimSpace(in.SourcePath)
	if path == "" {
		return nil, fmt.Errorf("%w: source path is required", ErrFileNotFound)
	}
	if !v.checker.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err := v.checker.Readable(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceNotReadable, path, err)
	}

	start, err := ParseSeconds(in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := ParseSeconds(in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}

	if start >= end {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrEmptyOrInvertedRange, FormatSeconds(start), FormatSeconds(end))
	}

	window := Window{Start: start, End: end}
	if v.policy.MaxClipSeconds > 0 && window.Length() > v.policy.MaxClipSeconds {
		return nil, fmt.Errorf("%w: %.3fs requested, maximum is %gs", ErrRangeTooLong, window.Length(), v.policy.MaxClipSeconds)
	}

	format := in.Format
	if format == "" {
		format = DefaultFormat
	} else if format, err = ParseFormat(string(format)); err != nil {
		return nil, err
	}

	rate := in.SampleRateHz
	if rate == 0 {
		rate = DefaultSampleRate
	}
	if err := ValidateSampleRate(rate, v.policy.StrictSampleRates); err != nil {
		return nil, err
	}

	bitrate := in.Bitrate
	if format == FormatMP3 && bitrate == "" {
		bitrate = DefaultMP3Bitrate
	}

	return &ExtractionRequest{
		SourcePath:   path,
		Window:       window,
		OutputPath:   in.OutputPath,
		Format:       format,
		SampleRateHz: rate,
		Bitrate:      bitrate,
	}, nil
}

// CheckDuration verifies the window lies inside a source of the given duration
func CheckDuration(req *ExtractionRequest, sourceDurationSeconds float64) error {
	if !(sourceDurationSeconds > 0) {
		return fmt.Errorf("%w: duration of %s is unknown", ErrSourceUnreadable, req.SourcePath)
	}
	if req.Window.Start >= sourceDurationSeconds || req.Window.End > sourceDurationSeconds {
		return fmt.Errorf("%w: window %s, source is %s long",
			ErrRangeExceedsSourceDuration, req.Window, FormatSeconds(sourceDurationSeconds))
	}
	return nil
}
