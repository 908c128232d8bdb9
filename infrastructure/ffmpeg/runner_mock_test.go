package ffmpeg

import (
	"context"
	"errors"
	"strings"
)

// mockRunner records invocations and replays canned output
type mockRunner struct {
	calls []mockCall

	outputs     map[string][]byte // keyed by binary name
	outputErr   error
	streamLines []string
	streamErr   error
}

type mockCall struct {
	name string
	args []string
}

func (m *mockRunner) record(name string, args []string) {
	m.calls = append(m.calls, mockCall{name: name, args: append([]string(nil), args...)})
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.record(name, args)
	return m.streamErr
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.record(name, args)
	if m.outputErr != nil {
		return nil, m.outputErr
	}
	if out, ok := m.outputs[name]; ok {
		return out, nil
	}
	return nil, errors.New("exec: \"" + name + "\": executable file not found in $PATH")
}

func (m *mockRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	m.record(name, args)
	for _, line := range m.streamLines {
		onLine(line)
	}
	return m.streamErr
}

func (m *mockRunner) lastArgs() string {
	if len(m.calls) == 0 {
		return ""
	}
	return strings.Join(m.calls[len(m.calls)-1].args, " ")
}
