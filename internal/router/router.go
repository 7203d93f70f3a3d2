package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/event-listing/internal/handler" // handlers for the public endpoints
	"github.com/iliyamo/event-listing/internal/metrics"
)

// RegisterRoutes registers the unauthenticated service endpoints: the home
// greeting, the health check and the prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Home)
	// Load balancers and monitoring poll /healthz.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
}
