package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/cardforge/og-render/internal/core/domain/render"
	"github.com/cardforge/og-render/internal/core/ports"
)

const (
	cacheStatusHitRAM  = "HIT-RAM"
	cacheStatusHitDisk = "HIT-DISK"
	cacheStatusMiss    = "MISS"
)

// renderOG serves GET /og. Validation failures never reach the cache/render
// pipeline; render failures surface as server errors with detail only
// outside production.
func (s *Server) renderOG(c echo.Context) error {
	params, err := render.NewParams(
		c.QueryParam("title"),
		c.QueryParam("author"),
		c.QueryParam("website"),
		c.QueryParam("theme"),
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key := params.Key()
	etag := `"` + key + `"`
	header := c.Response().Header()
	header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.config.HTTPCacheTTL.Seconds())))
	header.Set("X-Cache-Key", key)
	header.Set("ETag", etag)

	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}

	data, tier, cached, err := s.renderSvc.Resolve(c.Request().Context(), params)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("key", key).WithError(err).Error("image generation failed")
		}
		msg := "image generation failed"
		if s.config.Environment != "production" {
			msg = err.Error()
		}
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}

	header.Set("X-Cache-Status", cacheStatus(tier, cached))
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "status": cacheStatus(tier, cached), "bytes": len(data)}).Debug("preview served")
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

func cacheStatus(tier ports.CacheTier, cached bool) string {
	switch {
	case !cached:
		return cacheStatusMiss
	case tier == ports.CacheTierMemory:
		return cacheStatusHitRAM
	default:
		return cacheStatusHitDisk
	}
}
