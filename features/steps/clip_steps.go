//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	appclip "audio-clip-extractor/application/clip"
	"audio-clip-extractor/cmd"
	"audio-clip-extractor/domain/clip"
	"audio-clip-extractor/infrastructure/ffmpeg"
	"audio-clip-extractor/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

// fakeMediaRunner stands in for the ffmpeg and ffprobe binaries
type fakeMediaRunner struct {
	mu         sync.Mutex
	duration   float64
	hasAudio   bool
	ffmpegArgs [][]string
	failWith   string
}

func (r *fakeMediaRunner) Run(ctx context.Context, name string, args ...string) error {
	return nil
}

func (r *fakeMediaRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if len(args) == 1 && args[0] == "-version" {
		return []byte(name + " version 6.1"), nil
	}
	streams := `{"index": 0, "codec_type": "video", "codec_name": "h264"}`
	if r.hasAudio {
		streams += `, {"index": 1, "codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2}`
	}
	return []byte(fmt.Sprintf(`{"streams": [%s], "format": {"duration": "%f", "format_name": "matroska,webm"}}`, streams, r.duration)), nil
}

func (r *fakeMediaRunner) Stream(ctx context.Context, onLine func(string), name string, args ...string) error {
	r.mu.Lock()
	r.ffmpegArgs = append(r.ffmpegArgs, append([]string(nil), args...))
	r.mu.Unlock()

	output := args[len(args)-1]
	if r.failWith != "" {
		_ = os.WriteFile(output, []byte("partial"), 0o644)
		return errors.New("exit status 1: " + r.failWith)
	}
	if err := os.WriteFile(output, []byte("encoded audio"), 0o644); err != nil {
		return err
	}
	onLine("out_time_us=1000000")
	onLine("progress=end")
	return nil
}

func (r *fakeMediaRunner) lastArgs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ffmpegArgs) == 0 {
		return nil
	}
	return r.ffmpegArgs[len(r.ffmpegArgs)-1]
}

// countedFile tracks handles opened on the source
type countedFile struct {
	io.Closer
	clipCtx *clipContext
}

func (f countedFile) Close() error {
	f.clipCtx.mu.Lock()
	f.clipCtx.closes++
	f.clipCtx.mu.Unlock()
	return f.Closer.Close()
}

// clipContext holds test state for extract and interactive scenarios
type clipContext struct {
	mu         sync.Mutex
	tempDir    string
	sourcePath string
	outputDir  string
	policy     clip.Policy
	runner     *fakeMediaRunner
	opens      int
	closes     int
	output     *bytes.Buffer
	err        error
}

// SharedClipContext is reset before each scenario via Before hook
var SharedClipContext *clipContext

func getClipContext() *clipContext {
	return SharedClipContext
}

func (c *clipContext) service() *appclip.ExtractService {
	prober := ffmpeg.NewProber(
		ffmpeg.WithProberCommandRunner(c.runner),
		ffmpeg.WithFileOpener(func(name string) (io.Closer, error) {
			f, err := os.Open(name)
			if err != nil {
				return nil, err
			}
			c.mu.Lock()
			c.opens++
			c.mu.Unlock()
			return countedFile{Closer: f, clipCtx: c}, nil
		}),
	)
	encoder := ffmpeg.NewExtractor(ffmpeg.WithExtractorCommandRunner(c.runner))

	return appclip.NewExtractService(
		clip.NewValidator(filesystem.NewChecker(), c.policy),
		prober,
		encoder,
		filesystem.NewOutputLocker(filesystem.WithLockDir(filepath.Join(c.tempDir, "locks"))),
		appclip.WithOutputDir(c.outputDir),
	)
}

func InitializeClipScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "clip-test-*")
		if err != nil {
			return c, err
		}
		SharedClipContext = &clipContext{
			tempDir:   tempDir,
			outputDir: filepath.Join(tempDir, "clips"),
			runner:    &fakeMediaRunner{},
			output:    &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedClipContext != nil && SharedClipContext.tempDir != "" {
			os.RemoveAll(SharedClipContext.tempDir)
		}
		SharedClipContext = nil
		return c, nil
	})

	ctx.Step(`^a (\d+) second source video "([^"]*)" with an audio stream$`, aSourceVideoWithAnAudioStream)
	ctx.Step(`^the clip output directory is empty$`, theClipOutputDirectoryIsEmpty)
	ctx.Step(`^the source video does not exist$`, theSourceVideoDoesNotExist)
	ctx.Step(`^the source video has no audio stream$`, theSourceVideoHasNoAudioStream)
	ctx.Step(`^the maximum clip length is (\d+) seconds$`, theMaximumClipLengthIs)
	ctx.Step(`^ffmpeg fails with "([^"]*)"$`, ffmpegFailsWith)
	ctx.Step(`^I extract from "([^"]*)" to "([^"]*)" as "([^"]*)" at (\d+) Hz to "([^"]*)"$`, iExtractAsTo)
	ctx.Step(`^I extract from "([^"]*)" to "([^"]*)" with default settings$`, iExtractWithDefaultSettings)
	ctx.Step(`^the extraction should succeed$`, theExtractionShouldSucceed)
	ctx.Step(`^the extraction should fail with "([^"]*)"$`, theExtractionShouldFailWith)
	ctx.Step(`^the clip "([^"]*)" should exist$`, theClipShouldExist)
	ctx.Step(`^exactly (\d+) clip matching "([^"]*)" should exist$`, exactlyClipsMatchingShouldExist)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
	ctx.Step(`^ffmpeg should not have been run$`, ffmpegShouldNotHaveBeenRun)
	ctx.Step(`^no clip should have been written$`, noClipShouldHaveBeenWritten)
	ctx.Step(`^the source should have been released$`, theSourceShouldHaveBeenReleased)
	ctx.Step(`^the source should not have been opened$`, theSourceShouldNotHaveBeenOpened)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)

	registerInteractiveSteps(ctx)
}

func aSourceVideoWithAnAudioStream(seconds int, name string) error {
	c := getClipContext()
	c.sourcePath = filepath.Join(c.tempDir, name)
	c.runner.duration = float64(seconds)
	c.runner.hasAudio = true
	return os.WriteFile(c.sourcePath, []byte("not really a video"), 0o644)
}

func theClipOutputDirectoryIsEmpty() error {
	return os.MkdirAll(getClipContext().outputDir, 0o755)
}

func theSourceVideoDoesNotExist() error {
	return os.Remove(getClipContext().sourcePath)
}

func theSourceVideoHasNoAudioStream() error {
	getClipContext().runner.hasAudio = false
	return nil
}

func theMaximumClipLengthIs(seconds int) error {
	getClipContext().policy.MaxClipSeconds = float64(seconds)
	return nil
}

func ffmpegFailsWith(message string) error {
	getClipContext().runner.failWith = message
	return nil
}

func iExtractAsTo(start, end, format string, rate int, output string) error {
	c := getClipContext()
	return c.extract(clip.Input{
		SourcePath:   c.sourcePath,
		StartTime:    start,
		EndTime:      end,
		OutputPath:   filepath.Join(c.outputDir, output),
		Format:       clip.Format(format),
		SampleRateHz: rate,
	})
}

func iExtractWithDefaultSettings(start, end string) error {
	c := getClipContext()
	return c.extract(clip.Input{
		SourcePath: c.sourcePath,
		StartTime:  start,
		EndTime:    end,
	})
}

func (c *clipContext) extract(in clip.Input) error {
	c.err = cmd.RunExtractWithDependencies(context.Background(), c.service(), in, false, nil, c.output)
	return nil
}

func theExtractionShouldSucceed() error {
	if err := getClipContext().err; err != nil {
		return fmt.Errorf("unexpected error: %v", err)
	}
	return nil
}

func theExtractionShouldFailWith(kind string) error {
	c := getClipContext()
	if c.err == nil {
		return fmt.Errorf("expected %s error but extraction succeeded", kind)
	}
	if got := clip.Kind(c.err); got != kind {
		return fmt.Errorf("expected %s error, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func theClipShouldExist(name string) error {
	path := filepath.Join(getClipContext().outputDir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("expected clip at %s: %w", path, err)
	}
	return nil
}

func exactlyClipsMatchingShouldExist(count int, pattern string) error {
	matches, err := filepath.Glob(filepath.Join(getClipContext().outputDir, pattern))
	if err != nil {
		return err
	}
	if len(matches) != count {
		return fmt.Errorf("expected %d clip(s) matching %q, found %v", count, pattern, matches)
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	args := getClipContext().runner.lastArgs()
	if args == nil {
		return fmt.Errorf("ffmpeg was not called")
	}

	for _, row := range table.Rows {
		flag, want := row.Cells[0].Value, row.Cells[1].Value
		found := false
		for i := 0; i < len(args)-1; i++ {
			if args[i] == flag {
				found = true
				if args[i+1] != want {
					return fmt.Errorf("expected %s %s, got %s %s", flag, want, flag, args[i+1])
				}
				break
			}
		}
		if !found {
			return fmt.Errorf("flag %s not found in %v", flag, args)
		}
	}
	return nil
}

func ffmpegShouldNotHaveBeenRun() error {
	if args := getClipContext().runner.lastArgs(); args != nil {
		return fmt.Errorf("ffmpeg was run with %v", args)
	}
	return nil
}

func noClipShouldHaveBeenWritten() error {
	entries, err := os.ReadDir(getClipContext().outputDir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return fmt.Errorf("expected no files, found %v", names)
	}
	return nil
}

func theSourceShouldHaveBeenReleased() error {
	c := getClipContext()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opens != c.closes {
		return fmt.Errorf("source opened %d times but closed %d times", c.opens, c.closes)
	}
	return nil
}

func theSourceShouldNotHaveBeenOpened() error {
	c := getClipContext()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opens != 0 {
		return fmt.Errorf("source was opened %d times", c.opens)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	if out := getClipContext().output.String(); !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, out)
	}
	return nil
}
