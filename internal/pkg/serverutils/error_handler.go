package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/apierr"
)

// ErrorHandlerMiddleware turns errors returned by later handlers into the
// JSON error envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return writeError(ctx, err, log)
	}
}

// ErrorHandler is the fiber.Config error handler for errors that escape the
// middleware chain, e.g. routing misses.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return writeError(ctx, err, log)
	}
}

func writeError(ctx *fiber.Ctx, err error, log logger.ILogger) error {
	status, message, data := Classify(err)
	if status >= fiber.StatusInternalServerError && log != nil {
		log.Error("HTTP", "request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": status,
			"error":  err.Error(),
		})
	}
	if data != nil {
		return ctx.Status(status).JSON(ErrorResponseWithData(status, message, data))
	}
	return ctx.Status(status).JSON(ErrorResponse(status, message))
}

// Classify maps an error to an HTTP status, a client message and optional data.
func Classify(err error) (int, string, any) {
	var sectionErr *apierr.SectionNotFoundError
	if errors.As(err, &sectionErr) {
		return fiber.StatusNotFound, sectionErr.Error(), fiber.Map{
			"section":            sectionErr.Section,
			"available_sections": sectionErr.Available,
		}
	}

	var apiErr *apierr.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status, err.Error(), nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message, nil
	}

	switch {
	case errors.Is(err, apierr.ErrNotFound):
		return fiber.StatusNotFound, err.Error(), nil
	case errors.Is(err, apierr.ErrInvalidArgument):
		return fiber.StatusBadRequest, err.Error(), nil
	case errors.Is(err, apierr.ErrTransport):
		return fiber.StatusGatewayTimeout, err.Error(), nil
	case errors.Is(err, apierr.ErrUpstream):
		return fiber.StatusBadGateway, err.Error(), nil
	default:
		return fiber.StatusInternalServerError, "internal server error", nil
	}
}
