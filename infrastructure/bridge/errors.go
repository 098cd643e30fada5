package bridge

import (
	"errors"

	"clipdesk/domain/video"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusFor maps an operation error kind to an HTTP status
func StatusFor(kind video.Kind) int {
	switch kind {
	case video.KindInvalidRequest:
		return fiber.StatusBadRequest
	case video.KindSourceMissing:
		return fiber.StatusNotFound
	case video.KindSpawn:
		return fiber.StatusServiceUnavailable
	case video.KindExecution, video.KindParse:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func errorBody(err error) ErrorResponse {
	kind := video.KindOf(err)
	name := string(kind)
	if name == "" {
		name = "internal_error"
	}
	return ErrorResponse{OK: false, Error: name, Message: err.Error()}
}

func (s *Server) writeError(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(video.KindOf(err))).JSON(errorBody(err))
}

// handleFiberError covers routing errors and panics recovered by middleware
func (s *Server) handleFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: "http_error", Message: fe.Message})
	}
	s.logger.Error("unhandled bridge error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody(err))
}
