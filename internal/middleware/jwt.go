package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"   // errors distinguishes expired tokens from other failures
	"net/http" // HTTP status codes for responses

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/event-listing/internal/auth" // token service that verifies access tokens
)

// UserIDKey is the echo context key under which JWTAuth stores the caller id.
const UserIDKey = "user_id"

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's subject into the request context.  Protected handlers
// read the caller through UserID.  Any failure (no header, wrong scheme, bad
// signature, expired token) yields 401 and the handler is never reached.
func JWTAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The header must read "Bearer <token>".
			raw, err := auth.TokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			// Signature, algorithm and expiry are all checked by the token
			// service; the subject is the user id.
			uid, err := tokens.Verify(raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrExpiredToken) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
			}

			c.Set(UserIDKey, uid)
			return next(c)
		}
	}
}
