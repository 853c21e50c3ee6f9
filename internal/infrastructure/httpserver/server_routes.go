package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/og", s.renderOG)
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	s.echo.GET("/cache", s.cacheStats)
	s.echo.DELETE("/cache", s.clearCache, s.middleware.AdminAuth.RequireAdminToken())
	s.echo.DELETE("/cache/:key", s.invalidateCacheKey, s.middleware.AdminAuth.RequireAdminToken())
}
