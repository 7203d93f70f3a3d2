package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-listing/internal/service"
)

// statusFor maps the service taxonomy onto HTTP.  notFound lets DELETE answer
// 422 for a missing event while GET answers 404.
func statusFor(err error, notFound int) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return notFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidID):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUpload):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": msg}.  Unexpected errors are logged and hidden
// behind a generic message.
func fail(c echo.Context, logger zerolog.Logger, err error, notFound int) error {
	status := statusFor(err, notFound)
	if status == http.StatusInternalServerError {
		requestLogger(c, logger).Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(status, echo.Map{"error": "internal server error"})
	}
	return c.JSON(status, echo.Map{"error": service.Message(err, err.Error())})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// requestLogger prefers the request-scoped logger installed by the
// middleware, which carries the request id.
func requestLogger(c echo.Context, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(c.Request().Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
