package handler

import (
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/deppfellow/linkcondo/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Tenants  *TenantHandler
	Contacts *ContactHandler
	Access   *AccessHandler
	Portal   *PortalHandler
	Invoices *InvoiceHandler
	Bookings *BookingHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Tenants:  NewTenantHandler(s, services.Tenants),
		Contacts: NewContactHandler(s, services.Contacts),
		Access:   NewAccessHandler(s, services.Access),
		Portal:   NewPortalHandler(s),
		Invoices: NewInvoiceHandler(s, services.Invoices),
		Bookings: NewBookingHandler(s, services.Bookings),
	}
}
