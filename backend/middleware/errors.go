package middleware

import (
	"errors"
	"strings"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/studydex/studydex/backend/models"
	"github.com/studydex/studydex/studydex/apperrors"
)

// CustomErrorHandler maps application errors to HTTP responses. Engine
// errors carry a kind; everything else is a 500 with a generic body so
// internals never leak to clients.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	default:
		switch apperrors.KindOf(err) {
		case apperrors.KindNotFound:
			code = fiber.StatusNotFound
			message = apperrors.MessageOf(err)
		case apperrors.KindForbidden:
			code = fiber.StatusForbidden
			message = apperrors.MessageOf(err)
		case apperrors.KindInvalidState:
			code = fiber.StatusBadRequest
			message = apperrors.MessageOf(err)
		}
	}

	if code >= 500 {
		slog.Error("Request failed",
			slog.String("type", "http"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}

	errCode := strings.ToUpper(apperrors.KindOf(err).String())
	return c.Status(code).JSON(models.NewErrorResponse(errCode, message, nil))
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		return c.Next()
	}
}
