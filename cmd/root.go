package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"
	"clipdesk/infrastructure/config"
	"clipdesk/infrastructure/ffmpeg"
	"clipdesk/infrastructure/filesystem"
	"clipdesk/infrastructure/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
	logger  = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "clipdesk",
	Short: "Run ffmpeg and ffprobe jobs for the clipdesk desktop app",
	Long: `clipdesk is the command layer behind the clipdesk desktop app. It runs
ffmpeg and ffprobe as child processes and reports their results:

  - Trim a clip out of a video (stream copy, no re-encode)
  - Extract the audio track of a video with live progress
  - Read container and stream metadata
  - Serve all of the above to the UI over a local HTTP bridge

Example:
  clipdesk trim --input talk.mp4 --output intro.mp4 --start 00:00:05 --duration 30`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context, which stops any running tool.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	cfg, cfgErr = config.LoadOrDefault(cfgFile)
	if cfgErr != nil {
		// Commands that need config report cfgErr themselves
		cfg = nil
		return
	}

	l, err := logging.New(cfg.Logging)
	if err != nil {
		cfgErr = err
		return
	}
	logger = l
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfg == nil {
		if cfgErr == nil {
			cfgErr = fmt.Errorf("configuration not loaded")
		}
		return nil, fmt.Errorf("configuration error: %w", cfgErr)
	}
	return cfg, nil
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// mediaOptions turns the config into MediaService options
func mediaOptions(cfg *config.Config, logger *zap.Logger) []appvideo.Option {
	// Validate has already rejected unknown modes
	mode, _ := video.ParseProgressMode(cfg.Progress.Mode)
	return []appvideo.Option{
		appvideo.WithPolicy(appvideo.Policy{
			Strict:           cfg.Validation.Strict,
			CheckInputExists: cfg.Validation.CheckInputExists,
		}),
		appvideo.WithProgressMode(mode),
		appvideo.WithEventName(cfg.Progress.Event),
		appvideo.WithLogger(logger),
	}
}

func newTrimmer(cfg *config.Config, logger *zap.Logger) *ffmpeg.Trimmer {
	return ffmpeg.NewTrimmer(ffmpeg.WithFFmpegPath(cfg.Tools.FFmpeg), ffmpeg.WithLogger(logger))
}

func newExtractor(cfg *config.Config, logger *zap.Logger) *ffmpeg.Extractor {
	return ffmpeg.NewExtractor(ffmpeg.WithExtractorFFmpegPath(cfg.Tools.FFmpeg), ffmpeg.WithExtractorLogger(logger))
}

func newProber(cfg *config.Config, logger *zap.Logger) *ffmpeg.Prober {
	return ffmpeg.NewProber(ffmpeg.WithFFprobePath(cfg.Tools.FFprobe), ffmpeg.WithProberLogger(logger))
}

// newMediaService wires every production adapter into one service
func newMediaService(cfg *config.Config, logger *zap.Logger) *appvideo.MediaService {
	return appvideo.NewMediaService(
		newTrimmer(cfg, logger),
		newExtractor(cfg, logger),
		newProber(cfg, logger),
		filesystem.NewChecker(),
		mediaOptions(cfg, logger)...,
	)
}
