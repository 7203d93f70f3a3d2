package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-listing/internal/handler"
)

// EventMiddleware bundles the middleware applied to the /events routes.
type EventMiddleware struct {
	Auth       echo.MiddlewareFunc // bearer guard; required for writes
	Cache      echo.MiddlewareFunc // response cache for the listing
	Invalidate echo.MiddlewareFunc // drops cached listings after a write
}

// RegisterEvents maps the event endpoints.  Reads are public; create, replace
// and delete require a valid access token.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, mw EventMiddleware) {
	e.GET("/events", h.List, mw.Cache)
	e.GET("/events/:id", h.Get)

	// Attach middlewares at group construction time for clarity.  The guard
	// runs first so unauthenticated writes never touch the cache.
	g := e.Group("/events", mw.Auth, mw.Invalidate)
	g.POST("", h.Create)
	g.PUT("/:id", h.Replace)
	g.DELETE("/:id", h.Delete)
}
