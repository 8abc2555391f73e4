package api

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"awardmatch/internal/apperr"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, kind apperr.Kind, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error": fiber.Map{
			"kind":    kind,
			"message": message,
		},
	})
}

// jsonAppError maps an engine error to its HTTP status.
func jsonAppError(c fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)
	if status >= fiber.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return jsonError(c, status, kind, apperr.MessageOf(err))
}

// StatusOf returns the HTTP status for an error kind.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindPersistence:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// badRequest returns a validation error response.
func badRequest(c fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusBadRequest, apperr.KindValidation, message)
}
