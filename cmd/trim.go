package cmd

import (
	"context"
	"fmt"
	"os"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"
	"clipdesk/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	trimInputPath  string
	trimOutputPath string
	trimStart      string
	trimDuration   string
	trimEnd        string
	trimOverwrite  bool
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Cut a clip out of a video without re-encoding",
	Long: `Cut a clip out of a video with stream copy.

Start, duration and end accept plain seconds (12.5) or HH:MM:SS[.ss].
Give either --duration or --end.

Example:
  clipdesk trim --input talk.mp4 --output intro.mp4 --start 12.5 --duration 30
  clipdesk trim --input talk.mp4 --output intro.mp4 --start 00:01:00 --end 00:02:30`,
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVar(&trimInputPath, "input", "", "Path to the source video (required)")
	trimCmd.Flags().StringVar(&trimOutputPath, "output", "", "Path of the clip to write (required)")
	trimCmd.Flags().StringVar(&trimStart, "start", "0", "Start offset in seconds or HH:MM:SS")
	trimCmd.Flags().StringVar(&trimDuration, "duration", "", "Clip length in seconds or HH:MM:SS")
	trimCmd.Flags().StringVar(&trimEnd, "end", "", "End offset in seconds or HH:MM:SS (instead of --duration)")
	trimCmd.Flags().BoolVar(&trimOverwrite, "overwrite", false, "Replace the output file if it exists")
	trimCmd.MarkFlagRequired("input")
	trimCmd.MarkFlagRequired("output")
	trimCmd.MarkFlagsMutuallyExclusive("duration", "end")
	trimCmd.MarkFlagsOneRequired("duration", "end")
}

func runTrim(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	input, err := BuildTrimInput(trimInputPath, trimOutputPath, trimStart, trimDuration, trimEnd)
	if err != nil {
		return err
	}
	input.Overwrite = trimOverwrite

	return RunTrimWithDependencies(
		cmd.Context(),
		newTrimmer(cfg, logger),
		filesystem.NewChecker(),
		mediaOptions(cfg, logger),
		input,
		os.Stdout,
	)
}

// BuildTrimInput parses the textual offsets. When end is given the duration
// is end minus start.
func BuildTrimInput(inputPath, outputPath, start, duration, end string) (appvideo.TrimInput, error) {
	startSec, err := video.ParseOffset(start)
	if err != nil {
		return appvideo.TrimInput{}, fmt.Errorf("invalid start: %w", err)
	}

	var durationSec float64
	switch {
	case end != "":
		endSec, err := video.ParseOffset(end)
		if err != nil {
			return appvideo.TrimInput{}, fmt.Errorf("invalid end: %w", err)
		}
		durationSec = endSec - startSec
	default:
		durationSec, err = video.ParseOffset(duration)
		if err != nil {
			return appvideo.TrimInput{}, fmt.Errorf("invalid duration: %w", err)
		}
	}

	return appvideo.TrimInput{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Start:      startSec,
		Duration:   durationSec,
	}, nil
}

// RunTrimWithDependencies runs the trim command with injected dependencies (for testing)
func RunTrimWithDependencies(
	ctx context.Context,
	trimmer video.Trimmer,
	fileChecker video.FileChecker,
	opts []appvideo.Option,
	input appvideo.TrimInput,
	output OutputWriter,
) error {
	service := appvideo.NewMediaService(trimmer, nil, nil, fileChecker, opts...)

	fmt.Fprintf(output, "Trimming %s from %s for %ss...\n",
		input.InputPath, video.FromSeconds(input.Start), video.FormatSeconds(input.Duration))

	result, err := service.Trim(ctx, input)
	if err != nil {
		return fmt.Errorf("Error trimming video: %w", err)
	}

	fmt.Fprintln(output, result.Message)
	fmt.Fprintf(output, "Created: %s\n", result.OutputPath)
	return nil
}
