// Package handlers provides HTTP request handling
package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/celestiaorg/verse/internal/logger"
	"github.com/celestiaorg/verse/internal/services"
	"github.com/celestiaorg/verse/internal/types"
)

// Common error messages
const (
	ErrMsgInvalidReqBody   = "Invalid request body"
	ErrMsgValidationFailed = "Validation failed"
	ErrMsgInternal         = "Internal server error"
	ErrMsgRouteNotFound    = "Route not found"
	ErrMsgUnauthorized     = "Unauthorized"
)

// Model error messages
const (
	ErrMsgModelNotFound     = "Model not found"
	ErrMsgModelIDRequired   = "model_id is required"
	ErrMsgModelCreateFailed = "Failed to create model"
)

// Validation request error messages
const (
	ErrMsgValidationRequestNotFound = "Validation request not found"
	ErrMsgAlreadyProved             = "Proof already attached to this validation request"
	ErrMsgElfFileRequired           = "elf_file is required"
	ErrMsgJSONFileRequired          = "json_file is required"
	ErrMsgUploadOpenFailed          = "Failed to read uploaded file"
)

// respondError renders a service error with the matching status code.
// Unexpected errors are logged and reported without detail.
func respondError(c *fiber.Ctx, err error) error {
	var fieldErr *services.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ErrorResponse{
			Message: ErrMsgValidationFailed,
			Details: fieldErr,
		})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ErrorResponse{
			Message: ErrMsgValidationFailed,
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrModelNotFound):
		return notFound(c, ErrMsgModelNotFound)
	case errors.Is(err, services.ErrValidationRequestNotFound):
		return notFound(c, ErrMsgValidationRequestNotFound)
	case errors.Is(err, services.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyProved):
		return c.Status(fiber.StatusConflict).JSON(types.ErrorResponse{Message: ErrMsgAlreadyProved})
	}

	logger.ErrorWithFields("request failed", map[string]interface{}{
		"method": c.Method(),
		"path":   c.Path(),
		"error":  err.Error(),
	})
	return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{Message: ErrMsgInternal})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Message: msg})
}

func unprocessable(c *fiber.Ctx, msg string, details interface{}) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(types.ErrorResponse{
		Message: msg,
		Details: details,
	})
}

// ErrorHandler renders errors that reach the fiber app, such as oversized bodies or panics
// recovered by the recover middleware
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			logger.Errorf("request %s %s failed: %v", c.Method(), c.Path(), err)
		}
		return c.Status(fiberErr.Code).JSON(types.ErrorResponse{Message: fiberErr.Message})
	}
	return respondError(c, err)
}
