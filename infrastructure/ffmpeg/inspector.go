package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"audio-clip-extractor/domain/clip"
)

// Inspector implements clip.OutputInspector. WAV files are measured from
// their headers; other formats go through ffprobe.
type Inspector struct {
	prober *Prober
}

// NewInspector creates an Inspector that uses prober for non-WAV output
func NewInspector(prober *Prober) *Inspector {
	return &Inspector{prober: prober}
}

// Duration implements clip.OutputInspector
func (i *Inspector) Duration(ctx context.Context, path string, format clip.Format) (float64, error) {
	if format == clip.FormatWAV {
		return wavDuration(path)
	}

	result, err := i.prober.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	d := result.DurationSeconds()
	if d <= 0 {
		return 0, fmt.Errorf("no duration reported for %s", path)
	}
	return d, nil
}

func wavDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("not a valid wav file: %s", path)
	}

	d, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("wav duration: %w", err)
	}
	return d.Seconds(), nil
}

// Ensure Inspector implements clip.OutputInspector
var _ clip.OutputInspector = (*Inspector)(nil)
