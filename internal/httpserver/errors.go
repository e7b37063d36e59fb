package httpserver

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"go.uber.org/zap"

	"lantern/internal/logstream"
)

// NewErrorHandler builds the single boundary handler every typed failure
// propagates to. It maps error kind to status, logs the failure with the
// request's correlation id, and outside development replaces 5xx
// messages with a generic one while surfacing 4xx messages verbatim.
func NewErrorHandler(logger *zap.Logger, development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, richErr := normalizeError(err)

		log := logstream.Ctx(c.UserContext(), logger)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.Int("status", status),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		} else {
			log.Warn("request rejected",
				zap.Int("status", status),
				zap.String("path", c.Path()),
				zap.String("error", richErr.Message),
			)
		}

		message := richErr.Message
		if status >= fiber.StatusInternalServerError && !development {
			message = "Internal server error!"
		}

		payload := fiber.Map{"success": false, "error": message}
		if status < fiber.StatusInternalServerError && len(richErr.Metadata) > 0 {
			if violations, ok := richErr.Metadata["errors"]; ok {
				payload["errors"] = violations
			}
		}
		return c.Status(status).JSON(payload)
	}
}

func normalizeError(err error) (int, *errors.Error) {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return statusFor(richErr), richErr
	}

	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		category := errors.CategoryBadInput
		if fiberErr.Code >= fiber.StatusInternalServerError {
			category = errors.CategoryInternal
		}
		return fiberErr.Code, errors.New(fiberErr.Message, category).WithCode(fiberErr.Code)
	}

	richErr = errors.Wrap(err, errors.CategoryInternal, "internal server error").
		WithCode(errors.CodeInternal)
	return fiber.StatusInternalServerError, richErr
}

// statusFor resolves the HTTP status: an explicit code wins, otherwise
// the category decides.
func statusFor(richErr *errors.Error) int {
	if richErr.Code > 0 {
		return richErr.Code
	}
	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
