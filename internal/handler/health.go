package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a liveness endpoint for load balancers and monitoring.  It
// returns a plain text "ok" with HTTP 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Home answers GET / with a short greeting.
func Home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "You are on the home page"})
}
