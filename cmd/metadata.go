package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"
	"clipdesk/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	metadataInputPath string
	metadataMode      string
	metadataJSON      bool
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Show codec, size and duration of a media file",
	Long: `Read a media file with ffprobe.

By default the result is reduced to the fields the UI shows. --mode raw
prints ffprobe's JSON unchanged.

Example:
  clipdesk metadata --input talk.mp4
  clipdesk metadata --input talk.mp4 --json
  clipdesk metadata --input talk.mp4 --mode raw`,
	RunE: runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)
	metadataCmd.Flags().StringVar(&metadataInputPath, "input", "", "Path to the media file (required)")
	metadataCmd.Flags().StringVar(&metadataMode, "mode", "normalized", "normalized or raw")
	metadataCmd.Flags().BoolVar(&metadataJSON, "json", false, "Print normalized metadata as JSON")
	metadataCmd.MarkFlagRequired("input")
}

func runMetadata(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunMetadataWithDependencies(
		cmd.Context(),
		newProber(cfg, logger),
		filesystem.NewChecker(),
		mediaOptions(cfg, logger),
		appvideo.MetadataInput{FilePath: metadataInputPath, Mode: metadataMode},
		metadataJSON,
		os.Stdout,
	)
}

// RunMetadataWithDependencies runs the metadata command with injected dependencies (for testing)
func RunMetadataWithDependencies(
	ctx context.Context,
	prober video.MetadataProber,
	fileChecker video.FileChecker,
	opts []appvideo.Option,
	input appvideo.MetadataInput,
	asJSON bool,
	output OutputWriter,
) error {
	service := appvideo.NewMediaService(nil, nil, prober, fileChecker, opts...)

	result, err := service.Metadata(ctx, input)
	if err != nil {
		return err
	}

	if result.Raw != nil {
		_, err := fmt.Fprintln(output, string(result.Raw))
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(result.Metadata, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(output, string(data))
		return err
	}

	printMetadata(output, result.Metadata)
	return nil
}

func printMetadata(output OutputWriter, md *video.MediaMetadata) {
	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Video codec:\t%s\n", md.VideoCodec)
	fmt.Fprintf(w, "Resolution:\t%dx%d\n", md.VideoWidth, md.VideoHeight)
	fmt.Fprintf(w, "Aspect ratio:\t%s\n", md.AspectRatio)
	fmt.Fprintf(w, "Frame rate:\t%s\n", md.FrameRate)
	fmt.Fprintf(w, "Video bitrate:\t%d\n", md.VideoBitrate)
	fmt.Fprintf(w, "Audio codec:\t%s\n", md.AudioCodec)
	fmt.Fprintf(w, "Audio channels:\t%d\n", md.TotalAudioChannels)
	fmt.Fprintf(w, "Audio bitrate:\t%s\n", md.AudioBitrate)
	fmt.Fprintf(w, "Duration:\t%s\n", md.TotalDuration)
	w.Flush()
}
