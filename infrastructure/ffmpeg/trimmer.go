package ffmpeg

import (
	"context"
	"fmt"

	"clipdesk/domain/video"

	"go.uber.org/zap"
)

// Trimmer implements video.Trimmer using ffmpeg stream copy
type Trimmer struct {
	ffmpegPath string
	invoker    Invoker
	logger     *zap.Logger
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		t.ffmpegPath = path
	}
}

// WithInvoker sets a custom process invoker (for testing)
func WithInvoker(invoker Invoker) TrimmerOption {
	return func(t *Trimmer) {
		t.invoker = invoker
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) TrimmerOption {
	return func(t *Trimmer) {
		t.logger = logger
	}
}

// NewTrimmer creates a new FFmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		invoker:    ExecInvoker{},
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// TrimArgs builds the argument vector for a trim: seek to Start, limit to
// Duration, copy every stream without re-encoding.
func TrimArgs(req *video.TrimRequest) []string {
	var args []string
	if req.Overwrite {
		args = append(args, "-y")
	}
	return append(args,
		"-i", req.InputPath,
		"-ss", req.StartArg(),
		"-t", req.DurationArg(),
		"-c", "copy",
		req.OutputPath,
	)
}

// Trim implements video.Trimmer
func (t *Trimmer) Trim(ctx context.Context, req *video.TrimRequest) (*video.OperationResult, error) {
	inv := Invocation{Tool: t.ffmpegPath, Args: TrimArgs(req)}
	t.logger.Debug("starting ffmpeg", zap.String("op", video.OpTrim), zap.Strings("args", inv.Args))

	proc, err := start(ctx, t.invoker, video.OpTrim, inv)
	if err != nil {
		return nil, err
	}

	out, err := Reduce(ctx, video.OpTrim, proc, "Error trimming video")
	if err != nil {
		return nil, err
	}

	return &video.OperationResult{
		Operation:  video.OpTrim,
		Message:    successMessage("Video trimmed successfully", out.Text()),
		OutputPath: req.OutputPath,
	}, nil
}

// VerifyInstalled checks that ffmpeg is available
func (t *Trimmer) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, t.invoker, t.ffmpegPath)
}

func verifyInstalled(ctx context.Context, invoker Invoker, tool string) error {
	proc, err := start(ctx, invoker, video.OpVerify, Invocation{Tool: tool, Args: []string{"-version"}})
	if err != nil {
		return err
	}
	if _, err := Reduce(ctx, video.OpVerify, proc, fmt.Sprintf("%s -version failed", tool)); err != nil {
		return fmt.Errorf("%s not found or not executable: %w", tool, err)
	}
	return nil
}

// Ensure Trimmer implements video.Trimmer
var _ video.Trimmer = (*Trimmer)(nil)
