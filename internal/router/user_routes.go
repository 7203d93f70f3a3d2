package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-listing/internal/handler"
)

// RegisterUsers maps registration and login under /users.  limiter guards
// both endpoints against credential stuffing; pass a no-op middleware to
// disable it.
func RegisterUsers(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/users", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}
