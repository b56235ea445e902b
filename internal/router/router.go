// Package router builds the echo instance: global middleware, system
// endpoints, the public and resident API and the admin panel API.
package router

import (
	"net/http"

	"github.com/deppfellow/linkcondo/internal/handler"
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/middleware"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter registers every route of the portal.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	r := echo.New()
	r.HideBanner = true
	r.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	r.IPExtractor = middleware.IPExtractor(s.Config.Server)

	r.Use(
		mw.Global.Recover(),
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.BodyLimit(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		s.Metrics.Middleware(),
	)

	registerSystemRoutes(r, s, h)

	api := r.Group("/api")
	registerPublicRoutes(api, h, mw)
	registerPortalRoutes(api, h, mw)
	registerAdminRoutes(api, h, mw)

	return r
}

func registerPublicRoutes(api *echo.Group, h *handler.Handlers, mw *middleware.Middlewares) {
	api.GET("/public/tenant/:subdomain", handler.Handle(h.Tenants.Public, http.StatusOK))

	api.POST("/solicitar-link",
		handler.Handle(h.Access.RequestLink, http.StatusOK),
		mw.RateLimit.Limit("solicitar-link"))
}

// registerPortalRoutes guards resident routes per route rather than per
// group, so unknown /api paths still answer 404 instead of 401.
func registerPortalRoutes(api *echo.Group, h *handler.Handlers, mw *middleware.Middlewares) {
	anyLink := mw.MagicLink.RequireClaims("")
	boletos := mw.MagicLink.RequireClaims(magiclink.ActionBoletos)
	reservas := mw.MagicLink.RequireClaims(magiclink.ActionReservas)

	api.GET("/portal/sessao", handler.Handle(h.Portal.Session, http.StatusOK), anyLink)

	api.POST("/obter-boletos", handler.Handle(h.Invoices.List, http.StatusOK), boletos)
	api.POST("/obter-link-pdf", handler.Handle(h.Invoices.PDFLink, http.StatusOK), boletos)

	api.POST("/reservas/areas", handler.Handle(h.Bookings.Areas, http.StatusOK), reservas)
	api.POST("/reservas/areasreservas", handler.Handle(h.Bookings.AreaBookings, http.StatusOK), reservas)
	api.POST("/reservas/minhas-reservas", handler.Handle(h.Bookings.MyBookings, http.StatusOK), reservas)
	api.POST("/reservas/solicitar", handler.Handle(h.Bookings.Request, http.StatusOK), reservas)
	api.POST("/reservas/cancelar", handler.Handle(h.Bookings.Cancel, http.StatusOK), reservas)
}

func registerAdminRoutes(api *echo.Group, h *handler.Handlers, mw *middleware.Middlewares) {
	admin := api.Group("/admin", mw.Auth.RequireAuth)

	admin.GET("/clientes", handler.Handle(h.Tenants.List, http.StatusOK))
	admin.GET("/clientes/:id", handler.Handle(h.Tenants.Get, http.StatusOK))
	admin.POST("/clientes", handler.Handle(h.Tenants.Create, http.StatusOK))
	admin.PUT("/clientes", handler.Handle(h.Tenants.Update, http.StatusOK))

	admin.GET("/contatos", handler.Handle(h.Contacts.List, http.StatusOK))
	admin.POST("/contatos", handler.Handle(h.Contacts.Create, http.StatusOK))
	admin.PUT("/contatos", handler.Handle(h.Contacts.Update, http.StatusOK))
	admin.DELETE("/contatos", handler.Handle(h.Contacts.Delete, http.StatusOK))
	admin.POST("/contatos/import", handler.Handle(h.Contacts.Import, http.StatusOK))
}
