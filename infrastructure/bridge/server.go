package bridge

import (
	"context"
	"sync"
	"time"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// MediaOperations is what the bridge needs from the application layer
type MediaOperations interface {
	Trim(ctx context.Context, input appvideo.TrimInput) (*video.OperationResult, error)
	ExtractAudio(ctx context.Context, input appvideo.ExtractInput, sink video.ProgressSink) (*video.OperationResult, error)
	Metadata(ctx context.Context, input appvideo.MetadataInput) (*video.OperationResult, error)
}

// Check reports whether one external tool is usable
type Check func(ctx context.Context) error

// Server is the HTTP bridge the desktop UI talks to
type Server struct {
	app    *fiber.App
	media  MediaOperations
	checks map[string]Check
	logger *zap.Logger

	exitOnce sync.Once
	exitCh   chan struct{}
}

// Option is a functional option for configuring Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCheck registers a tool check reported by /api/health
func WithCheck(name string, check Check) Option {
	return func(s *Server) {
		s.checks[name] = check
	}
}

// NewServer creates the fiber app and registers all routes
func NewServer(media MediaOperations, opts ...Option) *Server {
	s := &Server{
		media:  media,
		checks: make(map[string]Check),
		logger: zap.NewNop(),
		exitCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "clipdesk",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleFiberError,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(s.requestLogger)

	api := s.app.Group("/api")
	api.Get("/health", s.Health)
	api.Post("/trim", s.Trim)
	api.Post("/extract-audio", s.ExtractAudio)
	api.Post("/metadata", s.Metadata)
	api.Post("/exit", s.Exit)

	return s
}

// App exposes the underlying fiber app (for tests)
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("bridge listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// ExitRequested is closed once the UI has asked the process to terminate
func (s *Server) ExitRequested() <-chan struct{} {
	return s.exitCh
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}
