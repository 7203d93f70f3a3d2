package middleware

// identity.go holds helpers that read the authenticated caller back out of the
// echo context once JWTAuth has run.

import "github.com/labstack/echo/v4"

// UserID returns the id stored by JWTAuth.  ok is false on routes that are not
// guarded or when the value is missing.
func UserID(c echo.Context) (string, bool) {
	v, ok := c.Get(UserIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// currentUserID is UserID with "anon" for unauthenticated callers, used when
// building rate limit keys.
func currentUserID(c echo.Context) string {
	if uid, ok := UserID(c); ok {
		return uid
	}
	return "anon"
}
