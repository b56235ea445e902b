package handler

import (
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/deppfellow/linkcondo/internal/service"
	"github.com/labstack/echo/v4"
)

// TenantHandler serves the public tenant branding and the admin
// administradora endpoints.
type TenantHandler struct {
	Handler
	tenants *service.TenantService
}

func NewTenantHandler(s *server.Server, tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{
		Handler: NewHandler(s),
		tenants: tenants,
	}
}

func (h *TenantHandler) Public(c echo.Context, req *model.PublicTenantRequest) (*model.PublicTenant, error) {
	return h.tenants.PublicProfile(c.Request().Context(), req.Subdomain)
}

func (h *TenantHandler) List(c echo.Context, _ *model.ListTenantsRequest) ([]model.Tenant, error) {
	return h.tenants.List(c.Request().Context())
}

func (h *TenantHandler) Get(c echo.Context, req *model.GetTenantRequest) (*model.Tenant, error) {
	return h.tenants.Get(c.Request().Context(), req.ID.Int64())
}

func (h *TenantHandler) Create(c echo.Context, req *model.CreateTenantRequest) (*model.Tenant, error) {
	return h.tenants.Create(c.Request().Context(), req)
}

func (h *TenantHandler) Update(c echo.Context, req *model.UpdateTenantRequest) (*model.Tenant, error) {
	return h.tenants.Update(c.Request().Context(), req)
}
