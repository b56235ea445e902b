package handler

import (
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/deppfellow/linkcondo/internal/service"
	"github.com/labstack/echo/v4"
)

// AccessHandler issues magic links.
type AccessHandler struct {
	Handler
	access *service.AccessService
}

func NewAccessHandler(s *server.Server, access *service.AccessService) *AccessHandler {
	return &AccessHandler{
		Handler: NewHandler(s),
		access:  access,
	}
}

// RequestLink emails a link when the address owns units of the tenant.
// The request host becomes the link origin unless a base URL is set.
func (h *AccessHandler) RequestLink(c echo.Context, req *model.MagicLinkRequest) (*model.MessageResponse, error) {
	return h.access.RequestLink(c.Request().Context(), req, c.Request().Host)
}
