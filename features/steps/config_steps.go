//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"audio-clip-extractor/cmd"
	"audio-clip-extractor/infrastructure/config"

	"github.com/cucumber/godog"
)

// configContext holds test state for setup and config scenarios
type configContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          *bytes.Buffer
	setupCancelled  bool
	err             error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config", "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedConfigContext != nil && SharedConfigContext.tempDir != "" {
			os.RemoveAll(SharedConfigContext.tempDir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^a saved default configuration$`, aSavedDefaultConfiguration)
	ctx.Step(`^I run the setup command with answers:$`, iRunTheSetupCommandWithAnswers)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, iSetTo)
	ctx.Step(`^I attempt to set "([^"]*)" to "([^"]*)"$`, iAttemptToSetTo)
	ctx.Step(`^a config file should exist$`, aConfigFileShouldExist)
	ctx.Step(`^the config should have "([^"]*)" set to "([^"]*)"$`, theConfigShouldHaveSetTo)
	ctx.Step(`^the settings table should list "([^"]*)" as "([^"]*)"$`, theSettingsTableShouldListAs)
	ctx.Step(`^the config command should fail with a usage error$`, theConfigCommandShouldFailWithAUsageError)
	ctx.Step(`^the setup should be cancelled$`, theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, theExistingConfigShouldBeUnchanged)
}

func noConfigFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(SharedConfigContext.configPath), 0755)
}

func aConfigFileAlreadyExistsForSetup() error {
	s := SharedConfigContext
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `paths:
  output_directory: "/original/clips"
audio:
  format: "WAV"
  sample_rate: 22050
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

func aSavedDefaultConfiguration() error {
	s := SharedConfigContext
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	return config.Save(config.Default(), s.configPath)
}

// parseAnswerTable splits answers into free-text inputs and list selections
func parseAnswerTable(table *godog.Table) (inputs []string, selects []string) {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		prompt := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[1].Value

		if prompt == "format" || prompt == "sample rate" {
			selects = append(selects, value)
		} else {
			inputs = append(inputs, value)
		}
	}
	return inputs, selects
}

func iRunTheSetupCommandWithAnswers(table *godog.Table) error {
	s := SharedConfigContext
	inputs, selects := parseAnswerTable(table)
	prompter := NewMockPrompter(inputs, nil, selects)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	return nil
}

func iRunTheSetupCommandWithConfirmation(confirmation string) error {
	s := SharedConfigContext
	confirm := strings.ToLower(confirmation) == "y"
	prompter := NewMockPrompter(nil, []bool{confirm}, nil)

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if !confirm {
		s.setupCancelled = strings.Contains(s.output.String(), "Setup cancelled.")
	}
	return nil
}

func loadSaved() (*config.Config, error) {
	cfg, err := config.Load(SharedConfigContext.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func iSetTo(key, value string) error {
	if err := iAttemptToSetTo(key, value); err != nil {
		return err
	}
	if err := SharedConfigContext.err; err != nil {
		return fmt.Errorf("config set failed: %w", err)
	}
	return nil
}

func iAttemptToSetTo(key, value string) error {
	s := SharedConfigContext
	cfg, err := loadSaved()
	if err != nil {
		return err
	}
	s.err = cmd.RunConfigSetWithDependencies(cfg, s.configPath, key, value, s.output)
	return nil
}

func aConfigFileShouldExist() error {
	path := SharedConfigContext.configPath
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", path)
	}
	return nil
}

func theConfigShouldHaveSetTo(key, expected string) error {
	cfg, err := loadSaved()
	if err != nil {
		return err
	}
	got, err := config.NewConfigManager(cfg, SharedConfigContext.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}

func theSettingsTableShouldListAs(key, value string) error {
	cfg, err := loadSaved()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := cmd.RunConfigShowWithDependencies(cfg, SharedConfigContext.configPath, &out); err != nil {
		return err
	}
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.Contains(line, key) && strings.Contains(line, value) {
			return nil
		}
	}
	return fmt.Errorf("settings table has no row %s = %s:\n%s", key, value, out.String())
}

func theConfigCommandShouldFailWithAUsageError() error {
	err := SharedConfigContext.err
	if err == nil {
		return fmt.Errorf("expected a usage error but the command succeeded")
	}
	if !errors.Is(err, cmd.ErrUsage) {
		return fmt.Errorf("expected a usage error, got %v", err)
	}
	return nil
}

func theSetupShouldBeCancelled() error {
	if !SharedConfigContext.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func theExistingConfigShouldBeUnchanged() error {
	s := SharedConfigContext
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
