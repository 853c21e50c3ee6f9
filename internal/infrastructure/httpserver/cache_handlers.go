package httpserver

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Cache keys are hex digests; anything else would be sanitized into an
// aliased disk filename, so reject it up front.
var cacheKeyPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// cacheStats serves GET /cache: tier sizes and key listings, read-only.
func (s *Server) cacheStats(c echo.Context) error {
	stats, err := s.cache.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read cache state")
	}
	return c.JSON(http.StatusOK, stats)
}

// clearCache serves DELETE /cache (admin). Returns per-tier removal counts.
func (s *Server) clearCache(c echo.Context) error {
	memory, disk, err := s.cache.InvalidateAll(c.Request().Context())
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("cache clear failed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear cache")
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"memory_removed": memory, "disk_removed": disk}).Info("cache cleared")
	}
	return c.JSON(http.StatusOK, map[string]int{
		"memory_removed": memory,
		"disk_removed":   disk,
	})
}

// invalidateCacheKey serves DELETE /cache/:key (admin). Absence is reported,
// not an error.
func (s *Server) invalidateCacheKey(c echo.Context) error {
	key := c.Param("key")
	if !cacheKeyPattern.MatchString(key) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cache key")
	}
	result, err := s.cache.Invalidate(c.Request().Context(), key)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("key", key).WithError(err).Error("cache invalidation failed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to invalidate cache entry")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"key":     key,
		"memory":  result.Memory,
		"disk":    result.Disk,
		"removed": result.Memory || result.Disk,
	})
}
