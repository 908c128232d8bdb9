//go:build integration

package steps

import (
	"context"
	"fmt"
	"strings"

	appclip "audio-clip-extractor/application/clip"
	"audio-clip-extractor/cmd"
	"audio-clip-extractor/domain/clip"

	"github.com/cucumber/godog"
)

func registerInteractiveSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I fill in the interactive form with start "([^"]*)" and end "([^"]*)"$`, iFillInTheInteractiveForm)
	ctx.Step(`^I fill in the interactive form with start "([^"]*)" and end "([^"]*)" as "([^"]*)" at "([^"]*)" Hz$`, iFillInTheInteractiveFormAs)
	ctx.Step(`^the form should report "([^"]*)"$`, theFormShouldReport)
}

func iFillInTheInteractiveForm(start, end string) error {
	return runInteractiveForm(start, end, nil)
}

func iFillInTheInteractiveFormAs(start, end, format, rate string) error {
	return runInteractiveForm(start, end, []string{format, rate})
}

func runInteractiveForm(start, end string, selects []string) error {
	c := getClipContext()
	c.policy = clip.InteractivePolicy

	prompter := NewMockPrompter(
		[]string{c.sourcePath, c.outputDir, start, end},
		[]bool{false}, // do not extract another clip
		selects,
	)

	c.err = cmd.RunInteractiveWithDependencies(
		context.Background(),
		prompter,
		appclip.NewRunner(c.service()),
		cmd.InteractiveDefaults{OutputDir: c.outputDir},
		nil,
		c.output,
	)
	if c.err != nil {
		return fmt.Errorf("interactive form ended with error: %v", c.err)
	}
	return nil
}

func theFormShouldReport(message string) error {
	if out := getClipContext().output.String(); !strings.Contains(out, message) {
		return fmt.Errorf("expected form to report %q, got:\n%s", message, out)
	}
	return nil
}
