package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/ffmpeg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMediaProber struct {
	result ffmpeg.ProbeResult
	err    error
	paths  []string
}

func (f *fakeMediaProber) Probe(ctx context.Context, path string) (ffmpeg.ProbeResult, error) {
	f.paths = append(f.paths, path)
	return f.result, f.err
}

func TestRunProbeWithDependencies(t *testing.T) {
	prober := &fakeMediaProber{result: ffmpeg.ProbeResult{
		Format: ffmpeg.ProbeFormat{Duration: "600.5", Size: "1048576", FormatName: "matroska,webm"},
		Streams: []ffmpeg.ProbeStream{
			{Index: 0, CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080},
			{Index: 1, CodecType: "audio", CodecName: "aac", SampleRate: "48000", Channels: 2},
		},
	}}
	var out bytes.Buffer

	require.NoError(t, RunProbeWithDependencies(context.Background(), prober, "/videos/sample.mkv", &out))

	got := out.String()
	assert.Equal(t, []string{"/videos/sample.mkv"}, prober.paths)
	assert.Contains(t, got, "matroska,webm")
	assert.Contains(t, got, "00:10:00.500 (600.500 s)")
	assert.Contains(t, got, "1.0 MB")
	assert.Contains(t, got, "1920x1080")
	assert.Contains(t, got, "48000 Hz, 2 ch")
	assert.NotContains(t, got, "no audio stream")
}

func TestRunProbeWithDependencies_WarnsWithoutAudio(t *testing.T) {
	prober := &fakeMediaProber{result: ffmpeg.ProbeResult{
		Format:  ffmpeg.ProbeFormat{Duration: "30"},
		Streams: []ffmpeg.ProbeStream{{Index: 0, CodecType: "video", CodecName: "h264"}},
	}}
	var out bytes.Buffer

	require.NoError(t, RunProbeWithDependencies(context.Background(), prober, "/videos/silent.mp4", &out))
	assert.Contains(t, out.String(), "Warning: no audio stream; extraction will fail.")
}

func TestRunProbeWithDependencies_Error(t *testing.T) {
	prober := &fakeMediaProber{err: fmt.Errorf("%w: /videos/broken.mkv", clip.ErrSourceUnreadable)}
	var out bytes.Buffer

	err := RunProbeWithDependencies(context.Background(), prober, "/videos/broken.mkv", &out)

	require.Error(t, err)
	assert.True(t, errors.Is(err, clip.ErrSourceUnreadable))
	assert.Empty(t, out.String())
}
