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

	"clipdesk/cmd"
	"clipdesk/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	loadErr    error
	cmdErr     error
	output     *bytes.Buffer
	envSet     []string
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext *configContext

func getConfigContext() *configContext {
	return SharedConfigContext
}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{tempDir: tempDir, output: &bytes.Buffer{}}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if cc := SharedConfigContext; cc != nil {
			for _, key := range cc.envSet {
				os.Unsetenv(key)
			}
			os.RemoveAll(cc.tempDir)
		}
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^a configuration file exists at "([^"]*)"$`, aConfigurationFileExistsAt)
	ctx.Step(`^no configuration file exists at "([^"]*)"$`, noConfigurationFileExistsAt)
	ctx.Step(`^a configuration file containing:$`, aConfigurationFileContaining)
	ctx.Step(`^the environment variable "([^"]*)" is "([^"]*)"$`, theEnvironmentVariableIs)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^I attempt to load the configuration$`, iAttemptToLoadTheConfiguration)
	ctx.Step(`^I load the configuration with defaults$`, iLoadTheConfigurationWithDefaults)
	ctx.Step(`^the config value "([^"]*)" should be "([^"]*)"$`, theConfigValueShouldBe)
	ctx.Step(`^I should receive an error about missing configuration$`, iShouldReceiveAnErrorAboutMissingConfiguration)
	ctx.Step(`^I should receive a configuration error mentioning "([^"]*)"$`, iShouldReceiveAConfigurationErrorMentioning)

	ctx.Step(`^I run config get "([^"]*)"$`, iRunConfigGet)
	ctx.Step(`^I run config set "([^"]*)" to "([^"]*)"$`, iRunConfigSet)
	ctx.Step(`^I run config list$`, iRunConfigList)
	ctx.Step(`^the config command should print "([^"]*)"$`, theConfigCommandShouldPrint)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, theConfigCommandShouldFailWith)
	ctx.Step(`^the file should have "([^"]*)" set to "([^"]*)"$`, theFileShouldHaveSetTo)
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

func aConfigurationFileExistsAt(path string) error {
	c := getConfigContext()
	root, err := findProjectRoot()
	if err != nil {
		return err
	}
	c.configPath = filepath.Join(root, path)

	// Verify file actually exists
	if _, err := os.Stat(c.configPath); err != nil {
		return fmt.Errorf("expected config file at %s but it does not exist: %w", c.configPath, err)
	}
	return nil
}

func noConfigurationFileExistsAt(path string) error {
	c := getConfigContext()
	c.configPath = filepath.Join(c.tempDir, path)
	return nil
}

func aConfigurationFileContaining(doc *godog.DocString) error {
	c := getConfigContext()
	c.configPath = filepath.Join(c.tempDir, "config", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.configPath, []byte(doc.Content), 0644)
}

func theEnvironmentVariableIs(key, value string) error {
	c := getConfigContext()
	c.envSet = append(c.envSet, key)
	return os.Setenv(key, value)
}

func iLoadTheConfiguration() error {
	c := getConfigContext()
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func iAttemptToLoadTheConfiguration() error {
	c := getConfigContext()
	c.cfg, c.loadErr = config.Load(c.configPath)
	return nil
}

func iLoadTheConfigurationWithDefaults() error {
	c := getConfigContext()
	c.cfg, c.loadErr = config.LoadOrDefault(c.configPath)
	return nil
}

func theConfigValueShouldBe(key, expected string) error {
	c := getConfigContext()
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded: %v", c.loadErr)
	}
	got, err := config.NewConfigManager(c.cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}

func iShouldReceiveAnErrorAboutMissingConfiguration() error {
	c := getConfigContext()
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !errors.Is(c.loadErr, os.ErrNotExist) {
		return fmt.Errorf("expected a missing file error, got: %v", c.loadErr)
	}
	return nil
}

func iShouldReceiveAConfigurationErrorMentioning(text string) error {
	c := getConfigContext()
	if c.loadErr == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.loadErr.Error(), text) {
		return fmt.Errorf("expected error mentioning %q, got: %v", text, c.loadErr)
	}
	return nil
}

func (c *configContext) current() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func iRunConfigGet(key string) error {
	c := getConfigContext()
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.cmdErr = cmd.RunConfigGetWithDependencies(cfg, c.configPath, key, c.output)
	return nil
}

func iRunConfigSet(key, value string) error {
	c := getConfigContext()
	if c.configPath == "" {
		c.configPath = filepath.Join(c.tempDir, "config", "config.yaml")
	}
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.cmdErr = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, c.output)
	return nil
}

func iRunConfigList() error {
	c := getConfigContext()
	cfg, err := c.current()
	if err != nil {
		return err
	}
	c.cmdErr = cmd.RunConfigListWithDependencies(cfg, c.configPath, c.output)
	return nil
}

func theConfigCommandShouldPrint(text string) error {
	c := getConfigContext()
	if c.cmdErr != nil {
		return fmt.Errorf("config command failed: %w", c.cmdErr)
	}
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

func theConfigCommandShouldFailWith(text string) error {
	c := getConfigContext()
	if c.cmdErr == nil {
		return fmt.Errorf("expected config command to fail")
	}
	if !strings.Contains(c.cmdErr.Error(), text) {
		return fmt.Errorf("expected error containing %q, got: %v", text, c.cmdErr)
	}
	return nil
}

func theFileShouldHaveSetTo(key, expected string) error {
	c := getConfigContext()
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	got, err := config.NewConfigManager(cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q in file, got %q", key, expected, got)
	}
	return nil
}
