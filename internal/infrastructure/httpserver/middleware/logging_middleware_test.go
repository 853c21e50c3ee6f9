package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/cardforge/og-render/internal/infrastructure/httpserver/middleware"
)

func TestRequestLoggingIncludesStatusAndCacheOutcome(t *testing.T) {
	e := echo.New()
	logger, hook := logrustest.NewNullLogger()
	m := middleware.NewLoggingMiddleware(logger)

	handler := m.RequestLogging()(func(c echo.Context) error {
		c.Response().Header().Set("X-Cache-Status", "HIT-RAM")
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/og?title=Hello", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	require.Equal(t, "request completed", entry.Message)
	require.Equal(t, http.MethodGet, entry.Data["method"])
	require.Equal(t, "/og", entry.Data["path"])
	require.Equal(t, http.StatusOK, entry.Data["status"])
	require.Equal(t, "HIT-RAM", entry.Data["cache"])
	require.Contains(t, entry.Data, "duration_ms")
}

func TestRequestLoggingOmitsCacheFieldWhenUnset(t *testing.T) {
	e := echo.New()
	logger, hook := logrustest.NewNullLogger()
	m := middleware.NewLoggingMiddleware(logger)

	handler := m.RequestLogging()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	require.Len(t, hook.Entries, 1)
	require.NotContains(t, hook.LastEntry().Data, "cache")
}

func TestRequestLoggingResolvesErrorStatus(t *testing.T) {
	e := echo.New()
	logger, hook := logrustest.NewNullLogger()
	m := middleware.NewLoggingMiddleware(logger)

	handler := m.RequestLogging()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	})

	req := httptest.NewRequest(http.MethodGet, "/og", nil)
	rec := httptest.NewRecorder()
	require.Error(t, handler(e.NewContext(req, rec)))

	require.Len(t, hook.Entries, 1)
	require.Equal(t, http.StatusBadRequest, hook.LastEntry().Data["status"])
}

func TestRequestLoggingNilLoggerPassesThrough(t *testing.T) {
	e := echo.New()
	m := middleware.NewLoggingMiddleware(nil)

	handler := m.RequestLogging()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/og", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
}
