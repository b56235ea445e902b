package router

import (
	"github.com/deppfellow/linkcondo/internal/handler"
	"github.com/deppfellow/linkcondo/internal/metrics"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints outside the portal API:
// health, Prometheus, and the OpenAPI docs with their static assets.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(metrics.Handler(s.Registry)))

	r.Static("/static", handler.OpenAPIDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
