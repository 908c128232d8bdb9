package clip

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"audio-clip-extractor/domain/clip"
)

// progressBuffer bounds queued progress events; older events are dropped
// when the consumer falls behind
const progressBuffer = 16

// Task is a submitted extraction. It completes exactly once.
type Task struct {
	done     chan struct{}
	progress chan Event

	result *Result
	err    error
}

// Done is closed when the extraction has finished, successfully or not
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Progress delivers progress events and is closed before Done
func (t *Task) Progress() <-chan Event {
	return t.progress
}

// Wait blocks until the extraction finishes and returns its outcome
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}

// Finished reports whether the task has completed without blocking
func (t *Task) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *Task) publish(e Event) {
	select {
	case t.progress <- e:
	default:
	}
}

// Runner executes extractions in the background, one at a time
type Runner struct {
	extractor Extractor
	group     errgroup.Group

	mu      sync.Mutex
	current *Task
}

// NewRunner creates a Runner around extractor
func NewRunner(extractor Extractor) *Runner {
	r := &Runner{extractor: extractor}
	r.group.SetLimit(1)
	return r
}

// Submit starts in on the background worker. It fails fast with
// ErrExtractionInProgress while another extraction is running.
func (r *Runner) Submit(ctx context.Context, in clip.Input, opts ...ExtractOption) (*Task, error) {
	t := &Task{
		done:     make(chan struct{}),
		progress: make(chan Event, progressBuffer),
	}

	var caller ExtractOptions
	for _, opt := range opts {
		opt(&caller)
	}
	opts = append(slices.Clone(opts), WithProgress(func(e Event) {
		if caller.OnProgress != nil {
			caller.OnProgress(e)
		}
		t.publish(e)
	}))

	run := func() error {
		defer close(t.done)
		defer close(t.progress)

		t.result, t.err = r.extractor.Extract(ctx, in, opts...)
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	started := r.group.TryGo(run)
	if !started && r.current != nil && r.current.Finished() {
		// the previous task is complete but its worker has not returned yet
		_ = r.group.Wait()
		started = r.group.TryGo(run)
	}
	if !started {
		return nil, fmt.Errorf("%w: wait for the current clip to finish", clip.ErrExtractionInProgress)
	}

	r.current = t
	return t, nil
}
