package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"
	"clipdesk/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	extractInputPath    string
	extractOutputPath   string
	extractProgressMode string
	extractOverwrite    bool
)

var extractAudioCmd = &cobra.Command{
	Use:   "extract-audio",
	Short: "Copy the audio track out of a video",
	Long: `Copy the audio track of a video into its own file without re-encoding.
The output extension should match the source codec (.aac, .m4a, .opus, ...).

Progress is printed as ffmpeg reports it. --progress-mode selects where it
is read from: "stderr" scans ffmpeg's status line, "pipe" uses ffmpeg's
machine-readable -progress output. The default comes from the config.

Example:
  clipdesk extract-audio --input talk.mp4 --output talk.aac
  clipdesk extract-audio --input talk.mkv --output talk.opus --progress-mode pipe`,
	RunE: runExtractAudio,
}

func init() {
	rootCmd.AddCommand(extractAudioCmd)
	extractAudioCmd.Flags().StringVar(&extractInputPath, "input", "", "Path to the source video (required)")
	extractAudioCmd.Flags().StringVar(&extractOutputPath, "output", "", "Path of the audio file to write (required)")
	extractAudioCmd.Flags().StringVar(&extractProgressMode, "progress-mode", "", "stderr or pipe (default from config)")
	extractAudioCmd.Flags().BoolVar(&extractOverwrite, "overwrite", false, "Replace the output file if it exists")
	extractAudioCmd.MarkFlagRequired("input")
	extractAudioCmd.MarkFlagRequired("output")
}

func runExtractAudio(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunExtractAudioWithDependencies(
		cmd.Context(),
		newExtractor(cfg, logger),
		filesystem.NewChecker(),
		mediaOptions(cfg, logger),
		appvideo.ExtractInput{
			InputPath:    extractInputPath,
			OutputPath:   extractOutputPath,
			ProgressMode: extractProgressMode,
			Overwrite:    extractOverwrite,
		},
		os.Stdout,
	)
}

// RunExtractAudioWithDependencies runs the extract-audio command with injected dependencies (for testing)
func RunExtractAudioWithDependencies(
	ctx context.Context,
	extractor video.AudioExtractor,
	fileChecker video.FileChecker,
	opts []appvideo.Option,
	input appvideo.ExtractInput,
	output OutputWriter,
) error {
	service := appvideo.NewMediaService(nil, extractor, nil, fileChecker, opts...)

	fmt.Fprintf(output, "Extracting audio from %s...\n", input.InputPath)

	result, err := service.ExtractAudio(ctx, input, NewWriterSink(output))
	if err != nil {
		return fmt.Errorf("Error extracting audio: %w", err)
	}

	fmt.Fprintln(output, result.Message)
	fmt.Fprintf(output, "Created: %s\n", result.OutputPath)
	return nil
}

// WriterSink prints one line per progress event
type WriterSink struct {
	mu  sync.Mutex
	out OutputWriter
}

// NewWriterSink creates a sink that writes to out
func NewWriterSink(out OutputWriter) *WriterSink {
	return &WriterSink{out: out}
}

// Emit implements video.ProgressSink
func (s *WriterSink) Emit(ev video.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.HasTime {
		_, err := fmt.Fprintf(s.out, "  %s %s\n", ev.Name, video.FromSeconds(ev.Seconds))
		return err
	}
	_, err := fmt.Fprintf(s.out, "  %s %s\n", ev.Name, ev.Line)
	return err
}
