package cmd

import (
	"context"
	"fmt"
	"time"

	appclip "audio-clip-extractor/application/clip"
	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/config"
	"audio-clip-extractor/infrastructure/ffmpeg"
	"audio-clip-extractor/infrastructure/filesystem"
)

// toolCheckTimeout bounds the ffmpeg -version probes run before work starts
const toolCheckTimeout = 5 * time.Second

// verifiable is implemented by adapters that wrap an external binary
type verifiable interface {
	VerifyInstalled(ctx context.Context) error
}

// verifyTools checks every external binary, reporting a setup error for the first missing one
func verifyTools(ctx context.Context, tools ...verifiable) error {
	verifyCtx, cancel := context.WithTimeout(ctx, toolCheckTimeout)
	defer cancel()
	for _, tool := range tools {
		if err := tool.VerifyInstalled(verifyCtx); err != nil {
			return fmt.Errorf("%w: %v", ErrSetup, err)
		}
	}
	return nil
}

func newProber(c *config.Config) *ffmpeg.Prober {
	return ffmpeg.NewProber(ffmpeg.WithFFprobePath(c.FFmpeg.FFprobePath))
}

func newEncoder(c *config.Config) *ffmpeg.Extractor {
	return ffmpeg.NewExtractor(
		ffmpeg.WithExtractorFFmpegPath(c.FFmpeg.FFmpegPath),
		ffmpeg.WithLogLevel(c.FFmpeg.LogLevel),
	)
}

// buildExtractService wires the production adapters into an ExtractService
// after confirming ffmpeg and ffprobe are installed.
func buildExtractService(ctx context.Context, c *config.Config, policy clip.Policy) (*appclip.ExtractService, error) {
	prober := newProber(c)
	encoder := newEncoder(c)
	if err := verifyTools(ctx, encoder, prober); err != nil {
		return nil, err
	}

	validator := clip.NewValidator(filesystem.NewChecker(), policy)
	return appclip.NewExtractService(
		validator,
		prober,
		encoder,
		filesystem.NewOutputLocker(),
		appclip.WithInspector(ffmpeg.NewInspector(prober)),
		appclip.WithLogger(GetLogger()),
		appclip.WithOutputDir(c.Paths.OutputDirectory),
	), nil
}
