package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"audio-clip-extractor/domain/clip"
)

// Prober implements clip.SourceOpener using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
	openFile    func(name string) (io.Closer, error)
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		if strings.TrimSpace(path) != "" {
			p.ffprobePath = path
		}
	}
}

// WithProberCommandRunner sets a custom command runner (for testing)
func WithProberCommandRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// WithFileOpener replaces os.Open for acquiring the source handle (for testing)
func WithFileOpener(open func(name string) (io.Closer, error)) ProberOption {
	return func(p *Prober) {
		p.openFile = open
	}
}

// NewProber creates a new ffprobe-based source opener
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
		openFile: func(name string) (io.Closer, error) {
			return os.Open(name)
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Open implements clip.SourceOpener. The returned source holds an open file
// handle until Close is called.
func (p *Prober) Open(ctx context.Context, path string) (clip.Source, error) {
	handle, err := p.openFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", clip.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", clip.ErrSourceNotReadable, path, err)
	}

	result, err := p.Probe(ctx, path)
	if err != nil {
		_ = handle.Close()
		return nil, err
	}

	return &source{path: path, handle: handle, probe: result}, nil
}

// Probe runs ffprobe against path without holding a handle
func (p *Prober) Probe(ctx context.Context, path string) (ProbeResult, error) {
	out, err := p.runner.Output(ctx, p.ffprobePath, probeArgs(path)...)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("%w: ffprobe %s: %v", clip.ErrSourceUnreadable, path, err)
	}
	result, err := ParseProbe(out)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("%w: %v", clip.ErrSourceUnreadable, err)
	}
	return result, nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	if _, err := p.runner.Output(ctx, p.ffprobePath, "-version"); err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// source is an opened container backed by a file handle and its probe result
type source struct {
	path   string
	handle io.Closer
	probe  ProbeResult

	once     sync.Once
	closeErr error
}

func (s *source) Path() string { return s.path }

func (s *source) Duration() float64 { return s.probe.DurationSeconds() }

func (s *source) HasAudio() bool { return len(s.probe.AudioStreams()) > 0 }

// Close releases the file handle; repeated calls return the first result
func (s *source) Close() error {
	s.once.Do(func() {
		s.closeErr = s.handle.Close()
	})
	return s.closeErr
}

// Ensure Prober implements clip.SourceOpener
var _ clip.SourceOpener = (*Prober)(nil)
