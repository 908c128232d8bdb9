package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"audio-clip-extractor/domain/clip"
)

// DefaultLogLevel keeps ffmpeg quiet apart from real errors
const DefaultLogLevel = "error"

// Extractor implements clip.AudioEncoder using ffmpeg
type Extractor struct {
	ffmpegPath string
	logLevel   string
	runner     CommandRunner
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if strings.TrimSpace(path) != "" {
			e.ffmpegPath = path
		}
	}
}

// WithExtractorCommandRunner sets a custom command runner (for testing)
func WithExtractorCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithLogLevel sets ffmpeg's -loglevel for every call made by this extractor
func WithLogLevel(level string) ExtractorOption {
	return func(e *Extractor) {
		if strings.TrimSpace(level) != "" {
			e.logLevel = level
		}
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		logLevel:   DefaultLogLevel,
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Args returns the ffmpeg arguments used to extract req from sourcePath.
// Seeking on the input with re-encoding decodes from the preceding keyframe and
// discards samples before the start, so the cut is sample-accurate; MP3 output
// is then accurate to one encoder frame.
func (e *Extractor) Args(sourcePath string, req *clip.ExtractionRequest, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", e.logLevel,
		"-ss", clip.FormatSeconds(req.Window.Start),
		"-i", sourcePath,
		"-t", clip.FormatSeconds(req.Window.Length()),
		"-map", "0:a:0", // First audio stream only
		"-vn",           // No video
		"-acodec", req.Format.Codec(),
	}
	if req.Format == clip.FormatMP3 && req.Bitrate != "" {
		args = append(args, "-ab", req.Bitrate)
	}
	args = append(args,
		"-ar", strconv.Itoa(req.SampleRateHz),
		"-f", req.Format.Muxer(),
		"-progress", "pipe:1",
		"-nostats",
		"-y", // Overwrite output file if it exists
		outputPath,
	)
	return args
}

// Encode implements clip.AudioEncoder
func (e *Extractor) Encode(ctx context.Context, src clip.Source, req *clip.ExtractionRequest, outputPath string, progress clip.ProgressFunc) error {
	parser := newProgressParser(req.Window.Duration(), progress)

	if err := e.runner.Stream(ctx, parser.Line, e.ffmpegPath, e.Args(src.Path(), req, outputPath)...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", clip.ErrExtractionFailed, ctxErr)
		}
		return fmt.Errorf("%w: ffmpeg: %v", clip.ErrExtractionFailed, err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Extractor implements clip.AudioEncoder
var _ clip.AudioEncoder = (*Extractor)(nil)
