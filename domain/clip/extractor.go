package clip

import (
	"context"
	"time"
)

// FileChecker defines the interface for checking source files before they are opened
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
	// Readable returns nil when the file can be opened for reading
	Readable(path string) error
}

// Source is an opened media container. It is owned by exactly one extraction
// and must be closed on every exit path.
type Source interface {
	Path() string
	// Duration returns the container duration in seconds, or 0 when unknown
	Duration() float64
	HasAudio() bool
	Close() error
}

// SourceOpener opens media containers
// This is a port that can be implemented by different infrastructure adapters
type SourceOpener interface {
	Open(ctx context.Context, path string) (Source, error)
}

// Progress reports how far an encode has advanced through its window
type Progress struct {
	Position time.Duration
	Fraction float64 // 0..1
	Done     bool
}

// ProgressFunc receives progress updates; it may be nil
type ProgressFunc func(Progress)

// AudioEncoder slices the audio of an opened source and encodes it
type AudioEncoder interface {
	// Encode writes the request's window of src to outputPath in the requested format
	Encode(ctx context.Context, src Source, req *ExtractionRequest, outputPath string, progress ProgressFunc) error
}

// OutputInspector measures produced clips
type OutputInspector interface {
	// Duration returns the playable length of path in seconds
	Duration(ctx context.Context, path string, format Format) (float64, error)
}

// Locker grants exclusive ownership of an output path
type Locker interface {
	// TryLock returns a release func, or ErrExtractionInProgress when already held
	TryLock(path string) (func() error, error)
}
