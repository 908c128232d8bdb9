package cmd

import (
	"context"
	"fmt"
	"sync"

	appclip "audio-clip-extractor/application/clip"
	"audio-clip-extractor/domain/clip"
)

// fakeExtractor returns scripted results in call order
type fakeExtractor struct {
	mu      sync.Mutex
	inputs  []clip.Input
	results []*appclip.Result
	errs    []error
	verify  []bool
	events  []appclip.Event
}

func (f *fakeExtractor) Extract(ctx context.Context, in clip.Input, opts ...appclip.ExtractOption) (*appclip.Result, error) {
	var o appclip.ExtractOptions
	for _, opt := range opts {
		opt(&o)
	}

	f.mu.Lock()
	n := len(f.inputs)
	f.inputs = append(f.inputs, in)
	f.verify = append(f.verify, o.Verify)
	f.mu.Unlock()

	if o.OnProgress != nil {
		for _, e := range f.events {
			o.OnProgress(e)
		}
	}

	var err error
	if n < len(f.errs) {
		err = f.errs[n]
	}
	if err != nil {
		return nil, err
	}
	if n < len(f.results) && f.results[n] != nil {
		return f.results[n], nil
	}
	return &appclip.Result{OutputPath: fmt.Sprintf("/clips/clip_%d.wav", n+1), Format: in.Format, SampleRateHz: in.SampleRateHz}, nil
}

// scriptedPrompter answers prompts from fixed lists and records the defaults it was offered
type scriptedPrompter struct {
	inputs   []string
	confirms []bool
	selects  []string

	inputDefaults  []string
	selectDefaults []string
	confirmErr     error
}

func (p *scriptedPrompter) Input(message string, defaultValue string) (string, error) {
	p.inputDefaults = append(p.inputDefaults, defaultValue)
	if len(p.inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt %q", message)
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, nil
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if p.confirmErr != nil {
		return false, p.confirmErr
	}
	if len(p.confirms) == 0 {
		return false, nil
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

func (p *scriptedPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	p.selectDefaults = append(p.selectDefaults, defaultValue)
	if len(p.selects) == 0 {
		return "", fmt.Errorf("unexpected select prompt %q", message)
	}
	v := p.selects[0]
	p.selects = p.selects[1:]
	for _, o := range options {
		if o == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %v", v, options)
}

// recordingProgress counts renderer calls
type recordingProgress struct {
	mu       sync.Mutex
	updates  []appclip.Event
	finished int
}

func (r *recordingProgress) Update(e appclip.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, e)
}

func (r *recordingProgress) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
}
