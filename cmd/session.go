package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"

	"github.com/spf13/cobra"
)

// Session menu choices
const (
	choiceTrim     = "Trim a clip"
	choiceExtract  = "Extract audio"
	choiceMetadata = "Show metadata"
	choiceExit     = "Exit"
)

var sessionChoices = []string{choiceTrim, choiceExtract, choiceMetadata, choiceExit}

// errSessionDone ends the menu loop without an error
var errSessionDone = errors.New("session finished")

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run media operations from an interactive menu",
	Long: `Show a menu of media operations and prompt for their arguments.
A failed operation is reported and the menu is shown again.
Choosing Exit terminates the process.`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

// MediaRunner is what the session needs from the application layer
type MediaRunner interface {
	Trim(ctx context.Context, input appvideo.TrimInput) (*video.OperationResult, error)
	ExtractAudio(ctx context.Context, input appvideo.ExtractInput, sink video.ProgressSink) (*video.OperationResult, error)
	Metadata(ctx context.Context, input appvideo.MetadataInput) (*video.OperationResult, error)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return RunSession(cmd.Context(), DefaultPrompter, newMediaService(cfg, logger), os.Stdout, exitProcess)
}

// RunSession loops over the menu until Exit is chosen or a prompt is cancelled
func RunSession(ctx context.Context, prompter Prompter, media MediaRunner, output OutputWriter, exit func(code int)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := prompter.Select("What do you want to do?", sessionChoices, choiceTrim)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}

		if choice == choiceExit {
			fmt.Fprintln(output, "Goodbye.")
			RunExit(exit)
			return nil
		}

		err = runSessionChoice(ctx, prompter, media, output, choice)
		switch {
		case errors.Is(err, errSessionDone):
			return nil
		case err != nil:
			fmt.Fprintf(output, "%v\n\n", err)
		}
	}
}

func runSessionChoice(ctx context.Context, prompter Prompter, media MediaRunner, output OutputWriter, choice string) error {
	switch choice {
	case choiceTrim:
		return sessionTrim(ctx, prompter, media, output)
	case choiceExtract:
		return sessionExtract(ctx, prompter, media, output)
	case choiceMetadata:
		return sessionMetadata(ctx, prompter, media, output)
	default:
		return fmt.Errorf("unknown choice %q", choice)
	}
}

func sessionTrim(ctx context.Context, prompter Prompter, media MediaRunner, output OutputWriter) error {
	answers, err := askAll(prompter,
		question{"Source video:", ""},
		question{"Clip to write:", ""},
		question{"Start (seconds or HH:MM:SS):", "0"},
		question{"Duration (seconds or HH:MM:SS):", ""},
	)
	if err != nil {
		return err
	}

	input, err := BuildTrimInput(answers[0], answers[1], answers[2], answers[3], "")
	if err != nil {
		return err
	}

	result, err := media.Trim(ctx, input)
	if err != nil {
		return fmt.Errorf("Error trimming video: %w", err)
	}
	fmt.Fprintf(output, "%s\n\n", result.Message)
	return nil
}

func sessionExtract(ctx context.Context, prompter Prompter, media MediaRunner, output OutputWriter) error {
	answers, err := askAll(prompter,
		question{"Source video:", ""},
		question{"Audio file to write:", ""},
	)
	if err != nil {
		return err
	}

	result, err := media.ExtractAudio(ctx, appvideo.ExtractInput{
		InputPath:  answers[0],
		OutputPath: answers[1],
	}, NewWriterSink(output))
	if err != nil {
		return fmt.Errorf("Error extracting audio: %w", err)
	}
	fmt.Fprintf(output, "%s\n\n", result.Message)
	return nil
}

func sessionMetadata(ctx context.Context, prompter Prompter, media MediaRunner, output OutputWriter) error {
	answers, err := askAll(prompter, question{"Media file:", ""})
	if err != nil {
		return err
	}

	result, err := media.Metadata(ctx, appvideo.MetadataInput{FilePath: answers[0]})
	if err != nil {
		return err
	}
	printMetadata(output, result.Metadata)
	fmt.Fprintln(output)
	return nil
}

type question struct {
	message      string
	defaultValue string
}

// askAll asks each question in turn. A cancelled prompt ends the session.
func askAll(prompter Prompter, questions ...question) ([]string, error) {
	answers := make([]string, 0, len(questions))
	for _, q := range questions {
		answer, err := prompter.Input(q.message, q.defaultValue)
		if err != nil {
			return nil, errSessionDone
		}
		answers = append(answers, strings.TrimSpace(answer))
	}
	return answers, nil
}
