package handler

import (
	"encoding/json"

	"github.com/deppfellow/linkcondo/internal/middleware"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/deppfellow/linkcondo/internal/service"
	"github.com/labstack/echo/v4"
)

// PortalHandler describes the link a resident opened.
type PortalHandler struct {
	Handler
}

func NewPortalHandler(s *server.Server) *PortalHandler {
	return &PortalHandler{Handler: NewHandler(s)}
}

func (h *PortalHandler) Session(c echo.Context, _ *model.SessionRequest) (*model.SessionResponse, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return service.Session(claims), nil
}

// InvoiceHandler serves the boletos area.
type InvoiceHandler struct {
	Handler
	invoices *service.InvoiceService
}

func NewInvoiceHandler(s *server.Server, invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		Handler:  NewHandler(s),
		invoices: invoices,
	}
}

func (h *InvoiceHandler) List(c echo.Context, _ *model.ListInvoicesRequest) (*model.InvoiceListResponse, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return h.invoices.List(c.Request().Context(), claims)
}

func (h *InvoiceHandler) PDFLink(c echo.Context, req *model.InvoiceLinkRequest) (*model.InvoiceLinkResponse, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return h.invoices.PDFLink(c.Request().Context(), claims, req)
}

// BookingHandler serves the reservas area.
type BookingHandler struct {
	Handler
	bookings *service.BookingService
}

func NewBookingHandler(s *server.Server, bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{
		Handler:  NewHandler(s),
		bookings: bookings,
	}
}

func (h *BookingHandler) Areas(c echo.Context, req *model.AreasRequest) ([]json.RawMessage, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return h.bookings.Areas(c.Request().Context(), claims, req)
}

func (h *BookingHandler) AreaBookings(c echo.Context, req *model.AreaBookingsRequest) (json.RawMessage, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return h.bookings.AreaBookings(c.Request().Context(), claims, req)
}

func (h *BookingHandler) MyBookings(c echo.Context, req *model.MyBookingsRequest) ([]model.MyBooking, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return h.bookings.MyBookings(c.Request().Context(), claims, req)
}

func (h *BookingHandler) Request(c echo.Context, req *model.BookingRequest) (*model.DataResponse, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return h.bookings.Request(c.Request().Context(), claims, req)
}

func (h *BookingHandler) Cancel(c echo.Context, req *model.CancelBookingRequest) (*model.DataResponse, error) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return nil, err
	}
	return h.bookings.Cancel(c.Request().Context(), claims, req)
}
