package ffmpeg

import (
	"context"
	"io"

	"clipdesk/domain/video"

	"go.uber.org/zap"
)

// Extractor implements video.AudioExtractor using ffmpeg
type Extractor struct {
	ffmpegPath string
	invoker    Invoker
	logger     *zap.Logger
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		e.ffmpegPath = path
	}
}

// WithExtractorInvoker sets a custom process invoker (for testing)
func WithExtractorInvoker(invoker Invoker) ExtractorOption {
	return func(e *Extractor) {
		e.invoker = invoker
	}
}

// WithExtractorLogger sets the logger
func WithExtractorLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		invoker:    ExecInvoker{},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExtractArgs builds the argument vector for audio extraction. In pipe mode
// ffmpeg is asked for key=value progress on stdout and quiet stats on stderr.
func ExtractArgs(req *video.AudioExtractionRequest) []string {
	var args []string
	if req.Overwrite {
		args = append(args, "-y")
	}
	args = append(args,
		"-i", req.InputPath,
		"-vn",              // No video
		"-acodec", "copy", // Keep the audio codec as-is
		req.OutputPath,
	)
	if req.ProgressMode == video.ProgressPipe {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return args
}

// Extract implements video.AudioExtractor.
//
// The progress stream is drained on its own goroutine while the child runs;
// Wait is only called after that reader reaches EOF, so the child can never
// stall on a full pipe.
func (e *Extractor) Extract(ctx context.Context, req *video.AudioExtractionRequest, sink video.ProgressSink) (*video.OperationResult, error) {
	if sink == nil {
		sink = video.DiscardProgress
	}

	mode := req.ProgressMode
	inv := Invocation{
		Tool:         e.ffmpegPath,
		Args:         ExtractArgs(req),
		StreamStderr: mode != video.ProgressPipe,
		StreamStdout: mode == video.ProgressPipe,
	}
	e.logger.Debug("starting ffmpeg",
		zap.String("op", video.OpExtractAudio),
		zap.String("progress_mode", string(mode)),
		zap.Strings("args", inv.Args),
	)

	proc, err := start(ctx, e.invoker, video.OpExtractAudio, inv)
	if err != nil {
		return nil, err
	}

	stream := proc.Stderr()
	if mode == video.ProgressPipe {
		stream = proc.Stdout()
	}

	marker := Marker(mode)
	done := e.drain(stream, marker, sink)
	if scanErr := <-done; scanErr != nil {
		e.logger.Warn("progress stream ended with error", zap.Error(scanErr))
	}

	out, err := Reduce(ctx, video.OpExtractAudio, proc, "Error extracting audio")
	if err != nil {
		return nil, err
	}

	msg := "Audio extracted successfully"
	if mode != video.ProgressPipe {
		msg = successMessage(msg, out.Text())
	}

	return &video.OperationResult{
		Operation:  video.OpExtractAudio,
		Message:    msg,
		OutputPath: req.OutputPath,
	}, nil
}

// drain scans stream in the background and reports its end on the returned channel
func (e *Extractor) drain(stream io.Reader, marker string, sink video.ProgressSink) <-chan error {
	done := make(chan error, 1)
	if stream == nil {
		done <- nil
		return done
	}

	go func() {
		done <- ScanProgress(stream, marker, func(line string) {
			ev := video.ProgressEvent{Line: line}
			ev.Seconds, ev.HasTime = ParseProgressTime(line, marker)
			if err := sink.Emit(ev); err != nil {
				e.logger.Warn("dropping progress event", zap.Error(err))
			}
		})
	}()
	return done
}

// VerifyInstalled checks that ffmpeg is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, e.invoker, e.ffmpegPath)
}

// Ensure Extractor implements video.AudioExtractor
var _ video.AudioExtractor = (*Extractor)(nil)
