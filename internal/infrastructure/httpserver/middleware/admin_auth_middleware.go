package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AdminAuthMiddleware struct {
	token  string
	logger *logrus.Logger
}

func NewAdminAuthMiddleware(token string, logger *logrus.Logger) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{token: token, logger: logger}
}

// RequireAdminToken guards cache-mutation endpoints with a static bearer
// token. An empty configured token disables the endpoints entirely.
func (m *AdminAuthMiddleware) RequireAdminToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.token == "" {
				return echo.NewHTTPError(http.StatusForbidden, "cache administration is disabled")
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			presented := strings.TrimPrefix(header, prefix)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(m.token)) != 1 {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path}).Warn("admin token rejected")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token")
			}
			return next(c)
		}
	}
}
