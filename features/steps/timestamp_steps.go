//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"audio-clip-extractor/cmd"

	"github.com/cucumber/godog"
)

type timestampContext struct {
	output *bytes.Buffer
	err    error
}

var sharedTimestampContext *timestampContext

func InitializeTimestampScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		sharedTimestampContext = &timestampContext{output: &bytes.Buffer{}}
		return c, nil
	})

	ctx.Step(`^I convert (\S+) minutes and (\S+) seconds$`, iConvertMinutesAndSeconds)
	ctx.Step(`^I convert the clock position "([^"]*)"$`, iConvertTheClockPosition)
	ctx.Step(`^the output should be "([^"]*)"$`, theTimestampOutputShouldBe)
	ctx.Step(`^the conversion should fail with "([^"]*)"$`, theConversionShouldFailWith)
}

func iConvertMinutesAndSeconds(minutes, seconds string) error {
	t := sharedTimestampContext
	t.err = cmd.RunTimestampWithDependencies(minutes, seconds, t.output)
	return nil
}

func iConvertTheClockPosition(clock string) error {
	t := sharedTimestampContext
	t.err = cmd.RunClockWithDependencies(clock, t.output)
	return nil
}

func theTimestampOutputShouldBe(expected string) error {
	t := sharedTimestampContext
	if t.err != nil {
		return fmt.Errorf("unexpected error: %v", t.err)
	}
	if got := strings.TrimSpace(t.output.String()); got != expected {
		return fmt.Errorf("expected %q, got %q", expected, got)
	}
	return nil
}

func theConversionShouldFailWith(message string) error {
	t := sharedTimestampContext
	if t.err == nil {
		return fmt.Errorf("expected an error containing %q", message)
	}
	if !strings.Contains(t.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %v", message, t.err)
	}
	return nil
}
