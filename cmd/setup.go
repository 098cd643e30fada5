package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"clipdesk/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if defaultValue != "" {
		prompt.Default = defaultValue
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command asks where ffmpeg and ffprobe live, how progress should be
read, which checks run before a tool starts, and where the UI bridge listens.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to clipdesk setup!")
	fmt.Println()

	cfg := config.Default()

	if err := promptTools(prompter, cfg); err != nil {
		return err
	}

	if err := promptProgress(prompter, cfg); err != nil {
		return err
	}

	if err := promptValidation(prompter, cfg); err != nil {
		return err
	}

	if err := promptBridge(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	ffmpegPath, err := prompter.Input("Path to ffmpeg (or name on PATH)?", cfg.Tools.FFmpeg)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffmpegPath != "" {
		cfg.Tools.FFmpeg = ffmpegPath
	}

	ffprobePath, err := prompter.Input("Path to ffprobe (or name on PATH)?", cfg.Tools.FFprobe)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ffprobePath != "" {
		cfg.Tools.FFprobe = ffprobePath
	}

	return nil
}

func promptProgress(prompter Prompter, cfg *config.Config) error {
	mode, err := prompter.Select("Where should progress be read from?", []string{"stderr", "pipe"}, cfg.Progress.Mode)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Progress.Mode = mode

	event, err := prompter.Input("Event name sent to the UI for progress?", cfg.Progress.Event)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if event != "" {
		cfg.Progress.Event = event
	}

	return nil
}

func promptValidation(prompter Prompter, cfg *config.Config) error {
	strict, err := prompter.Confirm("Reject negative start, empty duration and output == input before running?", cfg.Validation.Strict)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Validation.Strict = strict

	exists, err := prompter.Confirm("Check that the input file exists before running?", cfg.Validation.CheckInputExists)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Validation.CheckInputExists = exists

	return nil
}

func promptBridge(prompter Prompter, cfg *config.Config) error {
	listen, err := prompter.Input("Address the UI bridge listens on?", cfg.Bridge.Listen)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if listen == "" {
		return fmt.Errorf("listen address is required")
	}
	cfg.Bridge.Listen = listen
	return nil
}
