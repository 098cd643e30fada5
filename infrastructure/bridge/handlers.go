package bridge

import (
	"context"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"

	"github.com/gofiber/fiber/v2"
)

// ResultResponse is the body of a successful operation
type ResultResponse struct {
	OK bool `json:"ok"`
	*video.OperationResult
}

// HealthResponse reports whether each external tool can be started
type HealthResponse struct {
	Status string            `json:"status"`
	Tools  map[string]string `json:"tools"`
}

// Health runs every registered tool check
func (s *Server) Health(c *fiber.Ctx) error {
	resp := HealthResponse{Status: "ok", Tools: make(map[string]string, len(s.checks))}
	for name, check := range s.checks {
		if err := check(c.UserContext()); err != nil {
			resp.Status = "degraded"
			resp.Tools[name] = err.Error()
			continue
		}
		resp.Tools[name] = "ok"
	}

	status := fiber.StatusOK
	if resp.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

// Trim cuts a clip and answers with the confirmation message
func (s *Server) Trim(c *fiber.Ctx) error {
	var in appvideo.TrimInput
	if err := c.BodyParser(&in); err != nil {
		return s.writeError(c, video.NewInvalidRequest(video.OpTrim, "invalid request body: %v", err))
	}

	res, err := s.media.Trim(c.UserContext(), in)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(ResultResponse{OK: true, OperationResult: res})
}

// ExtractAudio streams progress events, then the result, as Server-Sent Events
func (s *Server) ExtractAudio(c *fiber.Ctx) error {
	var in appvideo.ExtractInput
	if err := c.BodyParser(&in); err != nil {
		return s.writeError(c, video.NewInvalidRequest(video.OpExtractAudio, "invalid request body: %v", err))
	}

	// the fiber context is recycled once the handler returns, so the
	// operation gets its own
	run := func(sink video.ProgressSink) (*video.OperationResult, error) {
		return s.media.ExtractAudio(context.Background(), in, sink)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Context().SetBodyStreamWriter(streamOperation(run, s.logger))
	return nil
}

// Metadata returns normalized metadata, or the probe JSON in raw mode
func (s *Server) Metadata(c *fiber.Ctx) error {
	var in appvideo.MetadataInput
	if err := c.BodyParser(&in); err != nil {
		return s.writeError(c, video.NewInvalidRequest(video.OpProbe, "invalid request body: %v", err))
	}

	res, err := s.media.Metadata(c.UserContext(), in)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(ResultResponse{OK: true, OperationResult: res})
}

// Exit acknowledges the request; the serve loop then terminates the process
func (s *Server) Exit(c *fiber.Ctx) error {
	s.exitOnce.Do(func() { close(s.exitCh) })
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ok": true, "message": "exiting"})
}
