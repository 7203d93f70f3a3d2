package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the correlation id in and out of the service.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with a correlation id, puts a request-scoped
// logger on the request context and logs one line when the handler returns.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With().Str("request_id", requestID).Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final.
				c.Error(err)
			}

			res := c.Response()
			evt := reqLogger.Info()
			if res.Status >= 500 {
				evt = reqLogger.Error().Err(err)
			}
			evt.Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("duration", time.Since(start)).
				Msg("request")
			return nil
		}
	}
}
