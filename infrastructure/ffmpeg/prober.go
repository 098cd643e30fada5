package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"unicode/utf8"

	"clipdesk/domain/video"

	"go.uber.org/zap"
)

// Prober implements video.MetadataProber using ffprobe
type Prober struct {
	ffprobePath string
	invoker     Invoker
	logger      *zap.Logger
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// WithProberInvoker sets a custom process invoker (for testing)
func WithProberInvoker(invoker Invoker) ProberOption {
	return func(p *Prober) {
		p.invoker = invoker
	}
}

// WithProberLogger sets the logger
func WithProberLogger(logger *zap.Logger) ProberOption {
	return func(p *Prober) {
		p.logger = logger
	}
}

// NewProber creates a new ffprobe-based metadata reader
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		invoker:     ExecInvoker{},
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ProbeArgs asks for quiet logging and a JSON dump of format and streams
func ProbeArgs(path string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
}

// Probe implements video.MetadataProber
func (p *Prober) Probe(ctx context.Context, req *video.ProbeRequest) (*video.OperationResult, error) {
	inv := Invocation{Tool: p.ffprobePath, Args: ProbeArgs(req.InputPath)}
	p.logger.Debug("starting ffprobe", zap.String("op", video.OpProbe), zap.Strings("args", inv.Args))

	proc, err := start(ctx, p.invoker, video.OpProbe, inv)
	if err != nil {
		return nil, err
	}

	// -v quiet leaves stderr empty on failure, so the fallback is the usual message
	out, err := Reduce(ctx, video.OpProbe, proc, video.ErrParse.Error())
	if err != nil {
		return nil, err
	}

	result := &video.OperationResult{Operation: video.OpProbe}

	if req.Mode == video.ProbeRaw {
		if !utf8.Valid(out.Stdout) {
			return nil, video.NewParseError(video.OpProbe, video.ErrDecode)
		}
		if !json.Valid(out.Stdout) {
			return nil, video.NewParseError(video.OpProbe, errors.New("probe output is not valid JSON"))
		}
		result.Raw = json.RawMessage(out.Stdout)
		return result, nil
	}

	md, err := video.Normalize(out.Stdout)
	if err != nil {
		p.logger.Warn("probe output rejected", zap.Error(errors.Unwrap(err)))
		return nil, err
	}
	result.Metadata = md
	return result, nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	return verifyInstalled(ctx, p.invoker, p.ffprobePath)
}

// Ensure Prober implements video.MetadataProber
var _ video.MetadataProber = (*Prober)(nil)
