package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/event-listing/internal/auth"
	"github.com/iliyamo/event-listing/internal/config"
	"github.com/iliyamo/event-listing/internal/handler"
	"github.com/iliyamo/event-listing/internal/middleware"
	"github.com/iliyamo/event-listing/internal/repository/memstore"
	"github.com/iliyamo/event-listing/internal/service"
	"github.com/iliyamo/event-listing/internal/upload"
)

func newRouter(t *testing.T) *echo.Echo {
	t.Helper()
	tokens, err := auth.NewTokenService("router-secret", time.Minute)
	require.NoError(t, err)
	logger := zerolog.Nop()
	users := service.NewUserService(memstore.NewUsers(), tokens, bcrypt.MinCost, logger)
	events := service.NewEventService(memstore.NewEvents(), &upload.S3Uploader{}, nil, logger)

	e := echo.New()
	e.Use(middleware.Metrics())
	RegisterRoutes(e)
	RegisterUsers(e, handler.NewAuthHandler(users, logger), middleware.NewTokenBucket(config.RateLimitConfig{}, nil, logger))
	cacheCfg := config.CacheConfig{}
	RegisterEvents(e, handler.NewEventHandler(events, 1<<20, logger), EventMiddleware{
		Auth:       middleware.JWTAuth(tokens),
		Cache:      middleware.NewRedisCache(cacheCfg, nil, logger),
		Invalidate: middleware.InvalidateCache(cacheCfg, nil, logger),
	})
	return e
}

func TestRouteTable(t *testing.T) {
	e := newRouter(t)
	cases := []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/events", http.StatusOK},
		{http.MethodGet, "/events/65a000000000000000000001", http.StatusNotFound},
		{http.MethodPost, "/events", http.StatusUnauthorized},
		{http.MethodPut, "/events/65a000000000000000000001", http.StatusUnauthorized},
		{http.MethodDelete, "/events/65a000000000000000000001", http.StatusUnauthorized},
		{http.MethodPost, "/users/login", http.StatusBadRequest},
		{http.MethodGet, "/metrics", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestMetricsExposition(t *testing.T) {
	e := newRouter(t)
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "eventlisting_http_requests_total")
}
