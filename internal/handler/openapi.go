package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIDir holds openapi.json and the docs page that renders it.
const OpenAPIDir = "static"

// OpenAPIHandler serves the API documentation page at /docs.
type OpenAPIHandler struct {
	Handler
	dir string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		dir:     OpenAPIDir,
	}
}

// ServeOpenAPIUI sends static/openapi.html uncached, so a redeploy shows
// the new document right away.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := os.ReadFile(h.dir + "/openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, page)
}
