package clip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/filesystem"
	"audio-clip-extractor/infrastructure/logging"
)

// containerAllowance is added to the encoder frame tolerance when verifying
// output length; container headers and priming add a few milliseconds.
const containerAllowance = 0.05

// maxNameAttempts bounds how many generated names are tried while others are locked
const maxNameAttempts = 100

// Result describes a successfully written clip
type Result struct {
	JobID        string
	OutputPath   string
	Window       clip.Window
	Format       clip.Format
	SampleRateHz int
	SizeBytes    int64
	// Duration is the measured clip length when verification ran, otherwise the window length
	Duration time.Duration
	Verified bool
}

// Event is a progress notification for one extraction
type Event struct {
	JobID    string
	Fraction float64
	Position time.Duration
	Elapsed  time.Duration
	Done     bool
}

// ExtractOptions tune a single Extract call
type ExtractOptions struct {
	OnProgress func(Event)
	Verify     bool
}

// ExtractOption is a functional option for a single Extract call
type ExtractOption func(*ExtractOptions)

// WithProgress registers a callback for progress events
func WithProgress(fn func(Event)) ExtractOption {
	return func(o *ExtractOptions) { o.OnProgress = fn }
}

// WithVerify measures the written clip and logs a warning when its length deviates
func WithVerify(verify bool) ExtractOption {
	return func(o *ExtractOptions) { o.Verify = verify }
}

// Extractor is the operation the Runner schedules
type Extractor interface {
	Extract(ctx context.Context, in clip.Input, opts ...ExtractOption) (*Result, error)
}

// ExtractService coordinates validation, source handling and encoding for one clip
type ExtractService struct {
	validator *clip.Validator
	opener    clip.SourceOpener
	encoder   clip.AudioEncoder
	locker    clip.Locker
	inspector clip.OutputInspector
	logger    *slog.Logger
	outputDir string
	now       func() time.Time
	newID     func() string
}

// ServiceOption is a functional option for configuring ExtractService
type ServiceOption func(*ExtractService)

// WithInspector enables output verification
func WithInspector(inspector clip.OutputInspector) ServiceOption {
	return func(s *ExtractService) { s.inspector = inspector }
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *ExtractService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutputDir sets the directory used when a request names neither a file nor a directory
func WithOutputDir(dir string) ServiceOption {
	return func(s *ExtractService) { s.outputDir = dir }
}

// WithClock sets the time source for generated filenames (for testing)
func WithClock(now func() time.Time) ServiceOption {
	return func(s *ExtractService) { s.now = now }
}

// WithIDGenerator sets the job ID generator (for testing)
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *ExtractService) { s.newID = newID }
}

// NewExtractService creates a new ExtractService
func NewExtractService(
	validator *clip.Validator,
	opener clip.SourceOpener,
	encoder clip.AudioEncoder,
	locker clip.Locker,
	opts ...ServiceOption,
) *ExtractService {
	s := &ExtractService{
		validator: validator,
		opener:    opener,
		encoder:   encoder,
		locker:    locker,
		logger:    logging.NewNop(),
		outputDir: ".",
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract validates in and writes the requested window of the source's audio.
// No output file exists unless the call succeeds.
func (s *ExtractService) Extract(ctx context.Context, in clip.Input, opts ...ExtractOption) (*Result, error) {
	var o ExtractOptions
	for _, opt := range opts {
		opt(&o)
	}

	jobID := s.newID()
	log := s.logger.With(logging.FieldJobID, jobID, logging.FieldComponent, "extract")

	req, err := s.validator.Precheck(in)
	if err != nil {
		log.Debug("request rejected", "kind", clip.Kind(err), "error", err)
		return nil, err
	}

	src, err := s.opener.Open(ctx, req.SourcePath)
	if err != nil {
		log.Debug("source open failed", logging.FieldSource, req.SourcePath, "error", err)
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn("failed to close source", logging.FieldSource, req.SourcePath, "error", cerr)
		}
	}()

	duration := src.Duration()
	if !(duration > 0) {
		return nil, fmt.Errorf("%w: duration of %s is unknown", clip.ErrSourceUnreadable, req.SourcePath)
	}
	if !src.HasAudio() {
		return nil, fmt.Errorf("%w: %s", clip.ErrNoAudioStream, req.SourcePath)
	}
	if err := clip.CheckDuration(req, duration); err != nil {
		return nil, err
	}

	release, err := s.claimOutput(in, req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(); rerr != nil {
			log.Warn("failed to release output lock", logging.FieldOutput, req.OutputPath, "error", rerr)
		}
	}()

	log.Info("extracting audio",
		logging.FieldSource, req.SourcePath,
		logging.FieldOutput, req.OutputPath,
		"window", req.Window.String(),
		"format", req.Format.String(),
		"sample_rate", req.SampleRateHz,
	)

	started := time.Now()
	partial := filesystem.PartialPath(req.OutputPath)
	progress := func(p clip.Progress) {
		if o.OnProgress == nil {
			return
		}
		o.OnProgress(Event{
			JobID:    jobID,
			Fraction: p.Fraction,
			Position: p.Position,
			Elapsed:  time.Since(started),
			Done:     p.Done,
		})
	}

	if err := s.encoder.Encode(ctx, src, req, partial, progress); err != nil {
		s.discard(log, partial)
		if !errors.Is(err, clip.ErrExtractionFailed) {
			err = fmt.Errorf("%w: %w", clip.ErrExtractionFailed, err)
		}
		log.Error("extraction failed", "error", err)
		return nil, err
	}

	if err := filesystem.Commit(partial, req.OutputPath); err != nil {
		s.discard(log, partial)
		return nil, fmt.Errorf("%w: %v", clip.ErrExtractionFailed, err)
	}

	result := &Result{
		JobID:        jobID,
		OutputPath:   req.OutputPath,
		Window:       req.Window,
		Format:       req.Format,
		SampleRateHz: req.SampleRateHz,
		Duration:     req.Window.Duration(),
	}
	if size, err := filesystem.Size(req.OutputPath); err == nil {
		result.SizeBytes = size
	}

	if o.Verify && s.inspector != nil {
		s.verify(ctx, log, req, result)
	}

	log.Info("extraction complete",
		logging.FieldOutput, result.OutputPath,
		"bytes", result.SizeBytes,
		"elapsed", time.Since(started),
	)
	return result, nil
}

// claimOutput sets req.OutputPath and locks it. An explicit path is used as
// given; a generated name moves on to the next free _N suffix when another
// extraction holds it.
func (s *ExtractService) claimOutput(in clip.Input, req *clip.ExtractionRequest) (func() error, error) {
	if in.OutputPath != "" {
		req.OutputPath = in.OutputPath
		if err := filesystem.EnsureDir(filepath.Dir(req.OutputPath)); err != nil {
			return nil, fmt.Errorf("%w: %v", clip.ErrExtractionFailed, err)
		}
		return s.locker.TryLock(req.OutputPath)
	}

	dir := in.OutputDir
	if dir == "" {
		dir = s.outputDir
	}
	if err := filesystem.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", clip.ErrExtractionFailed, err)
	}

	base := clip.ResolveOutputPath("", dir, req.Window, req.Format, s.now())
	busy := make(map[string]bool)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		path := filesystem.UniquePath(base, func(p string) bool { return busy[p] })
		release, err := s.locker.TryLock(path)
		if errors.Is(err, clip.ErrExtractionInProgress) {
			busy[path] = true
			continue
		}
		if err != nil {
			return nil, err
		}
		if filesystem.Exists(path) {
			// committed by another extraction between the check and the lock
			if rerr := release(); rerr != nil {
				return nil, rerr
			}
			busy[path] = true
			continue
		}
		req.OutputPath = path
		return release, nil
	}
	return nil, fmt.Errorf("%w: no free name for %s after %d attempts", clip.ErrExtractionInProgress, base, maxNameAttempts)
}

func (s *ExtractService) verify(ctx context.Context, log *slog.Logger, req *clip.ExtractionRequest, result *Result) {
	measured, err := s.inspector.Duration(ctx, req.OutputPath, req.Format)
	if err != nil {
		log.Warn("could not measure output duration", logging.FieldOutput, req.OutputPath, "error", err)
		return
	}

	result.Duration = time.Duration(measured * float64(time.Second))
	result.Verified = true

	tolerance := req.Tolerance() + containerAllowance
	if delta := math.Abs(measured - req.Window.Length()); delta > tolerance {
		log.Warn("clip duration deviates from requested window",
			"requested", req.Window.Length(),
			"measured", measured,
			"tolerance", tolerance,
		)
	}
}

func (s *ExtractService) discard(log *slog.Logger, partial string) {
	if err := filesystem.Discard(partial); err != nil {
		log.Warn("failed to remove partial output", logging.FieldOutput, partial, "error", err)
	}
}

// Ensure ExtractService implements Extractor
var _ Extractor = (*ExtractService)(nil)
