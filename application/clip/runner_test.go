package clip

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-clip-extractor/domain/clip"
)

func TestRunner_SubmitAndWait(t *testing.T) {
	f := newFixture(t)
	runner := NewRunner(f.service(clip.InteractivePolicy))

	var callerEvents int
	task, err := runner.Submit(context.Background(), clip.Input{
		SourcePath: sourcePath, StartTime: "1190", EndTime: "1207",
	}, WithProgress(func(Event) { callerEvents++ }))
	require.NoError(t, err)

	var events []Event
	for e := range task.Progress() {
		events = append(events, e)
	}

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
	}

	result, err := task.Wait()
	require.NoError(t, err)
	assert.True(t, task.Finished())
	assert.FileExists(t, result.OutputPath)
	require.Len(t, events, 2)
	assert.True(t, events[1].Done)
	assert.Equal(t, 2, callerEvents)
}

func TestRunner_RejectsWhileBusy(t *testing.T) {
	f := newFixture(t)
	f.encoder.gate = make(chan struct{})
	runner := NewRunner(f.service(clip.InteractivePolicy))
	in := clip.Input{SourcePath: sourcePath, StartTime: "1", EndTime: "2"}

	first, err := runner.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, first.Finished())

	_, err = runner.Submit(context.Background(), in)
	assert.ErrorIs(t, err, clip.ErrExtractionInProgress)

	close(f.encoder.gate)
	_, err = first.Wait()
	require.NoError(t, err)

	second, err := runner.Submit(context.Background(), in)
	require.NoError(t, err)
	_, err = second.Wait()
	assert.NoError(t, err)
}

func TestRunner_SurfacesErrors(t *testing.T) {
	f := newFixture(t)
	runner := NewRunner(f.service(clip.InteractivePolicy))

	task, err := runner.Submit(context.Background(), clip.Input{
		SourcePath: sourcePath, StartTime: "0", EndTime: "21",
	})
	require.NoError(t, err)

	result, err := task.Wait()
	assert.Nil(t, result)
	assert.ErrorIs(t, err, clip.ErrRangeTooLong)
	assert.True(t, f.opener.balanced())
}

func TestRunner_SubmitRightAfterTaskCompletes(t *testing.T) {
	f := newFixture(t)
	runner := NewRunner(f.service(clip.InteractivePolicy))
	in := clip.Input{SourcePath: sourcePath, StartTime: "1", EndTime: "2"}

	for i := 0; i < 50; i++ {
		task, err := runner.Submit(context.Background(), in)
		require.NoError(t, err, "submit %d", i)
		_, err = task.Wait()
		require.NoError(t, err)
	}
	assert.True(t, f.opener.balanced())
}

func TestRunner_SubmitLeavesCallerOptionsIntact(t *testing.T) {
	f := newFixture(t)
	runner := NewRunner(f.service(clip.InteractivePolicy))
	in := clip.Input{SourcePath: sourcePath, StartTime: "1", EndTime: "2"}

	verify := WithVerify(false)
	opts := make([]ExtractOption, 1, 4)
	opts[0] = verify
	marker := func(*ExtractOptions) {}
	spare := append(opts, marker)

	task, err := runner.Submit(context.Background(), in, opts...)
	require.NoError(t, err)
	_, err = task.Wait()
	require.NoError(t, err)

	require.Len(t, spare, 2)
	assert.Equal(t, fmt.Sprintf("%p", marker), fmt.Sprintf("%p", spare[1]), "caller's backing array was overwritten")
}
