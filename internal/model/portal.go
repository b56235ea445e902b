package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Text is a string that also accepts JSON numbers. Ids echoed back from
// Superlógica listings arrive either way.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string {
	return string(t)
}

// MagicLinkRequest asks for an access link to be emailed.
type MagicLinkRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Subdomain string `json:"subdomain" validate:"required"`
	Action    string `json:"acao" validate:"required,oneof=boletos reservas"`
}

func (r *MagicLinkRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Subdomain = NormalizeSubdomain(r.Subdomain)
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	return validate.Struct(r)
}

// SessionRequest has no parameters; the claim comes from the bearer token.
type SessionRequest struct{}

func (r *SessionRequest) Validate() error {
	return nil
}

// SessionUnit is a unit exposed to the portal landing page.
type SessionUnit struct {
	CondominiumID   string `json:"idCondominio"`
	CondominiumName string `json:"nomeCondominio"`
	UnitID          string `json:"idUnidade"`
	Label           string `json:"unidade"`
}

// SessionResponse describes the verified link a resident opened.
type SessionResponse struct {
	Units     []SessionUnit `json:"unidades"`
	Subdomain string        `json:"subdomain"`
	Action    string        `json:"acao"`
	ExpiresAt time.Time     `json:"expiraEm"`
}

// ListInvoicesRequest has no parameters; units come from the claim.
type ListInvoicesRequest struct{}

func (r *ListInvoicesRequest) Validate() error {
	return nil
}

// InvoiceLinkRequest asks for the PDF of one charge.
type InvoiceLinkRequest struct {
	CondominiumID Text `json:"idCondominio" validate:"required"`
	ChargeID      Text `json:"idBoleto" validate:"required"`
	// DueDate is DD/MM/YYYY, as listed in boletosVisiveis.
	DueDate string `json:"vencimento" validate:"required"`
}

func (r *InvoiceLinkRequest) Validate() error {
	r.DueDate = strings.TrimSpace(r.DueDate)
	return validate.Struct(r)
}

// AreasRequest lists the reservable areas of a condominium.
type AreasRequest struct {
	CondominiumID Text `json:"idCondominio" validate:"required"`
}

func (r *AreasRequest) Validate() error {
	return validate.Struct(r)
}

// AreaBookingsRequest lists the bookings of one area. CondominiumID
// defaults to the first unit of the claim.
type AreaBookingsRequest struct {
	AreaID        Text `json:"idArea" validate:"required"`
	CondominiumID Text `json:"idCondominio"`
}

func (r *AreaBookingsRequest) Validate() error {
	return validate.Struct(r)
}

// MyBookingsRequest lists the caller's bookings in a condominium.
type MyBookingsRequest struct {
	CondominiumID Text `json:"idCondominio" validate:"required"`
}

func (r *MyBookingsRequest) Validate() error {
	return validate.Struct(r)
}

// BookingRequest asks for an amenity booking.
type BookingRequest struct {
	AreaID        Text `json:"idArea" validate:"required"`
	CondominiumID Text `json:"idCondominio" validate:"required"`
	UnitID        Text `json:"idUnidade" validate:"required"`
	// Date is YYYY-MM-DD, an RFC 3339 timestamp or DD/MM/YYYY.
	Date string `json:"dataReserva" validate:"required"`
	// BlockDelinquent is the area's rule; "1" refuses units with debts.
	BlockDelinquent Text `json:"regraBloquearInadimplente" validate:"required"`
}

func (r *BookingRequest) Validate() error {
	r.Date = strings.TrimSpace(r.Date)
	return validate.Struct(r)
}

// CancelBookingRequest cancels one booking.
type CancelBookingRequest struct {
	CondominiumID Text   `json:"idCondominio" validate:"required"`
	BookingID     Text   `json:"idReserva" validate:"required"`
	AreaID        Text   `json:"idArea" validate:"required"`
	Reason        string `json:"motivo" validate:"required"`
}

func (r *CancelBookingRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return validate.Struct(r)
}

// Invoice is a visible charge of a unit.
type Invoice struct {
	ID            string `json:"id"`
	DueDate       string `json:"vencimento"`
	Amount        string `json:"valor"`
	PDFLink       string `json:"linkPDF,omitempty"`
	CondominiumID string `json:"idCondominio"`
}

// InvoiceGroup gathers the visible invoices of one unit.
type InvoiceGroup struct {
	Condominium     string       `json:"condominio"`
	Unit            string       `json:"unidade"`
	VisibleInvoices []Invoice    `json:"boletosVisiveis"`
	HasOldDebt      bool         `json:"possuiDividaAntiga"`
	LegalContact    *ContactCard `json:"contatoJuridico,omitempty"`
}

// InvoiceListResponse is the body of /api/obter-boletos.
type InvoiceListResponse struct {
	GroupedResults []InvoiceGroup `json:"groupedResults"`
}

// InvoiceLinkResponse is the body of /api/obter-link-pdf.
type InvoiceLinkResponse struct {
	PDFLink string `json:"linkPDF"`
}

// MyBooking is one booking of the caller's units.
type MyBooking struct {
	ID               string `json:"id_reserva_res"`
	Date             string `json:"dt_reserva_res"`
	Status           string `json:"fl_status_res"`
	Queue            string `json:"nm_fila_res"`
	UnitID           string `json:"id_unidade_uni"`
	AreaName         string `json:"st_nome_are"`
	AreaID           string `json:"id_area_are"`
	CancellationDays int    `json:"regraCancelamentoDias"`
}

// DataResponse is a confirmation message with the upstream answer.
type DataResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
