package ffmpeg

import (
	"strconv"
	"strings"
	"time"

	"audio-clip-extractor/domain/clip"
)

// progressParser turns `-progress pipe:1` key=value lines into clip.Progress
// updates. ffmpeg emits one block per update terminated by a progress= line.
type progressParser struct {
	total    time.Duration
	position time.Duration
	report   clip.ProgressFunc
}

func newProgressParser(total time.Duration, report clip.ProgressFunc) *progressParser {
	return &progressParser{total: total, report: report}
}

// Line consumes one line of ffmpeg progress output
func (p *progressParser) Line(line string) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return
	}

	switch key {
	case "out_time_us", "out_time_ms":
		// out_time_ms is also reported in microseconds
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			p.position = time.Duration(us) * time.Microsecond
		}
	case "progress":
		done := value == "end"
		if done {
			p.position = p.total
		}
		if p.report != nil {
			p.report(clip.Progress{Position: p.position, Fraction: p.fraction(), Done: done})
		}
	}
}

func (p *progressParser) fraction() float64 {
	if p.total <= 0 {
		return 0
	}
	f := float64(p.position) / float64(p.total)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}
