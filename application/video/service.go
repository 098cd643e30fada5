package video

import (
	"context"

	"clipdesk/domain/video"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Policy controls which checks run before a tool is launched.
// With both fields false, arguments reach the tool untouched.
type Policy struct {
	Strict           bool // start >= 0, duration > 0, input != output
	CheckInputExists bool
}

// DefaultPolicy enables every local check
func DefaultPolicy() Policy {
	return Policy{Strict: true, CheckInputExists: true}
}

// MediaService coordinates the media operations the UI can request
type MediaService struct {
	trimmer     video.Trimmer
	extractor   video.AudioExtractor
	prober      video.MetadataProber
	fileChecker video.FileChecker

	policy       Policy
	progressMode video.ProgressMode
	eventName    string
	logger       *zap.Logger
	newID        func() string
}

// Option is a functional option for configuring MediaService
type Option func(*MediaService)

// WithPolicy sets the validation policy
func WithPolicy(p Policy) Option {
	return func(s *MediaService) {
		s.policy = p
	}
}

// WithProgressMode sets the mode used when a request does not name one
func WithProgressMode(mode video.ProgressMode) Option {
	return func(s *MediaService) {
		if mode != "" {
			s.progressMode = mode
		}
	}
}

// WithEventName sets the name stamped on progress events
func WithEventName(name string) Option {
	return func(s *MediaService) {
		if name != "" {
			s.eventName = name
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *MediaService) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the operation ID source (for testing)
func WithIDGenerator(gen func() string) Option {
	return func(s *MediaService) {
		s.newID = gen
	}
}

// NewMediaService creates a new MediaService
func NewMediaService(trimmer video.Trimmer, extractor video.AudioExtractor, prober video.MetadataProber, fileChecker video.FileChecker, opts ...Option) *MediaService {
	s := &MediaService{
		trimmer:      trimmer,
		extractor:    extractor,
		prober:       prober,
		fileChecker:  fileChecker,
		policy:       DefaultPolicy(),
		progressMode: video.ProgressStderr,
		eventName:    video.DefaultProgressEvent,
		logger:       zap.NewNop(),
		newID:        uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TrimInput represents the input for a trim operation
type TrimInput struct {
	InputPath  string  `json:"input"`
	OutputPath string  `json:"output"`
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
	Overwrite  bool    `json:"overwrite,omitempty"`
}

// ExtractInput represents the input for an audio extraction operation
type ExtractInput struct {
	InputPath    string `json:"input"`
	OutputPath   string `json:"output"`
	ProgressMode string `json:"progress_mode,omitempty"` // empty uses the service default
	Overwrite    bool   `json:"overwrite,omitempty"`
}

// MetadataInput represents the input for a metadata read
type MetadataInput struct {
	FilePath string `json:"file_path"`
	Mode     string `json:"mode,omitempty"`
}

// Trim cuts a clip out of a video
func (s *MediaService) Trim(ctx context.Context, input TrimInput) (*video.OperationResult, error) {
	id := s.newID()
	log := s.logger.With(zap.String("op", video.OpTrim), zap.String("operation_id", id))

	req, err := video.NewTrimRequest(input.InputPath, input.OutputPath, input.Start, input.Duration)
	if err != nil {
		return nil, s.fail(log, err)
	}
	req.Overwrite = input.Overwrite

	if s.policy.Strict {
		if err := req.Validate(); err != nil {
			return nil, s.fail(log, err)
		}
	}
	if err := s.checkInput(video.OpTrim, req.InputPath); err != nil {
		return nil, s.fail(log, err)
	}

	log.Debug("trimming",
		zap.String("input", req.InputPath),
		zap.String("output", req.OutputPath),
		zap.String("start", req.StartArg()),
		zap.String("duration", req.DurationArg()),
	)

	res, err := s.trimmer.Trim(ctx, req)
	if err != nil {
		return nil, s.fail(log, err)
	}
	res.OperationID = id
	log.Info("trim finished", zap.String("output", res.OutputPath))
	return res, nil
}

// ExtractAudio copies the audio track of a video, forwarding progress to sink
func (s *MediaService) ExtractAudio(ctx context.Context, input ExtractInput, sink video.ProgressSink) (*video.OperationResult, error) {
	id := s.newID()
	log := s.logger.With(zap.String("op", video.OpExtractAudio), zap.String("operation_id", id))

	mode := s.progressMode
	if input.ProgressMode != "" {
		parsed, err := video.ParseProgressMode(input.ProgressMode)
		if err != nil {
			return nil, s.fail(log, video.NewInvalidRequest(video.OpExtractAudio, "%v", err))
		}
		mode = parsed
	}

	req, err := video.NewAudioExtractionRequest(input.InputPath, input.OutputPath, mode)
	if err != nil {
		return nil, s.fail(log, err)
	}
	req.Overwrite = input.Overwrite

	if s.policy.Strict {
		if err := req.Validate(); err != nil {
			return nil, s.fail(log, err)
		}
	}
	if err := s.checkInput(video.OpExtractAudio, req.InputPath); err != nil {
		return nil, s.fail(log, err)
	}

	log.Debug("extracting audio",
		zap.String("input", req.InputPath),
		zap.String("output", req.OutputPath),
		zap.String("progress_mode", string(req.ProgressMode)),
	)

	res, err := s.extractor.Extract(ctx, req, s.stamp(id, sink))
	if err != nil {
		return nil, s.fail(log, err)
	}
	res.OperationID = id
	log.Info("audio extraction finished", zap.String("output", res.OutputPath))
	return res, nil
}

// Metadata reads a media file's metadata, normalized or raw
func (s *MediaService) Metadata(ctx context.Context, input MetadataInput) (*video.OperationResult, error) {
	id := s.newID()
	log := s.logger.With(zap.String("op", video.OpProbe), zap.String("operation_id", id))

	mode, err := video.ParseProbeMode(input.Mode)
	if err != nil {
		return nil, s.fail(log, video.NewInvalidRequest(video.OpProbe, "%v", err))
	}
	req, err := video.NewProbeRequest(input.FilePath, mode)
	if err != nil {
		return nil, s.fail(log, err)
	}
	if err := s.checkInput(video.OpProbe, req.InputPath); err != nil {
		return nil, s.fail(log, err)
	}

	log.Debug("probing", zap.String("input", req.InputPath), zap.String("mode", string(req.Mode)))

	res, err := s.prober.Probe(ctx, req)
	if err != nil {
		return nil, s.fail(log, err)
	}
	res.OperationID = id
	log.Info("probe finished")
	return res, nil
}

func (s *MediaService) checkInput(op, path string) error {
	if !s.policy.CheckInputExists || s.fileChecker == nil {
		return nil
	}
	if !s.fileChecker.Exists(path) {
		return video.NewSourceMissing(op, path)
	}
	return nil
}

// stamp wraps sink so every event carries the operation ID and event name
func (s *MediaService) stamp(id string, sink video.ProgressSink) video.ProgressSink {
	if sink == nil {
		return video.DiscardProgress
	}
	name := s.eventName
	return video.SinkFunc(func(ev video.ProgressEvent) error {
		ev.OperationID = id
		ev.Name = name
		return sink.Emit(ev)
	})
}

func (s *MediaService) fail(log *zap.Logger, err error) error {
	log.Warn("operation failed", zap.String("kind", string(video.KindOf(err))), zap.Error(err))
	return err
}
