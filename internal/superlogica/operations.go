package superlogica

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Date layouts used by the API.
const (
	// DateLayout is the MM/DD/YYYY format of every date parameter.
	DateLayout = "01/02/2006"
)

const (
	endpointUnits         = "unidades/index"
	endpointCharges       = "cobranca/index"
	endpointSecondCopy    = "cobranca/gerarlinksegundavia"
	endpointAreas         = "reservas/areas"
	endpointAreaBookings  = "reservas/areasreservas"
	endpointDelinquencies = "inadimplencia/index"
	endpointBookings      = "reservas/"
	endpointCancel        = "reservas/cancelar"
)

// activeBookingStatuses selects pending (0) and confirmed (1) bookings.
const activeBookingStatuses = "0,1"

// SearchUnitsByEmail finds units, across all condominiums, whose contacts
// match email. Contacts are expanded so the caller can verify the match.
func (c *Client) SearchUnitsByEmail(ctx context.Context, creds Credentials, email string) ([]Unit, error) {
	query := url.Values{
		"idCondominio":           {"-1"},
		"pesquisa":               {email},
		"exibirDadosDosContatos": {"1"},
	}
	items, err := c.getList(ctx, creds, endpointUnits, query)
	if err != nil {
		return nil, err
	}
	return decodeList[Unit](ctx, endpointUnits, items), nil
}

// ListCharges lists the valid charges of a unit due between from and to.
func (c *Client) ListCharges(ctx context.Context, creds Credentials, condominiumID, unitID string, from, to time.Time) ([]Charge, error) {
	query := url.Values{
		"status":       {"validos"},
		"idCondominio": {condominiumID},
		"UNIDADES[0]":  {unitID},
		"dtInicio":     {from.Format(DateLayout)},
		"dtFim":        {to.Format(DateLayout)},
	}
	items, err := c.getList(ctx, creds, endpointCharges, query)
	if err != nil {
		return nil, err
	}
	return decodeList[Charge](ctx, endpointCharges, items), nil
}

// SecondCopyLink asks for the PDF link of a charge. The API answers with
// either a redirect or a quoted, slash-escaped URL in the body.
func (c *Client) SecondCopyLink(ctx context.Context, creds Credentials, condominiumID, chargeID string, dueDate time.Time) (string, error) {
	due := dueDate.Format(DateLayout)
	query := url.Values{
		"ID_CONDOMINIO_COND":        {condominiumID},
		"ID_RECEBIMENTO_RECB":       {chargeID},
		"DT_VENCIMENTO_RECB":        {due},
		"DT_ATUALIZACAO_VENCIMENTO": {due},
	}

	res, err := c.do(ctx, c.noRedirect, creds, http.MethodGet, endpointSecondCopy, query, nil)
	if err != nil {
		if upstreamErr, isUpstream := err.(*Error); isUpstream && upstreamErr.Status == 0 && upstreamErr.cause != nil {
			upstreamErr.Message = "Erro de rede ao gerar link do PDF: " + errors.Cause(upstreamErr.cause).Error()
		}
		return "", err
	}

	if res.status >= 300 && res.status < 400 {
		if location := res.header.Get("Location"); location != "" {
			return location, nil
		}
		return "", &Error{Status: res.status, Message: "API redirecionou, mas não forneceu um link."}
	}

	if !ok(res.status) {
		return "", &Error{
			Status:  res.status,
			Message: "Não foi possível gerar o link para o PDF (Status: " + strconv.Itoa(res.status) + ").",
		}
	}

	link := cleanLink(string(res.body))
	if !strings.HasPrefix(link, "http") {
		return "", &Error{Status: res.status, Message: "Não foi possível extrair um link válido do PDF da resposta da API."}
	}
	return link, nil
}

// cleanLink strips surrounding quotes and JSON slash escapes.
func cleanLink(body string) string {
	link := strings.TrimSpace(body)
	link = strings.TrimPrefix(link, `"`)
	link = strings.TrimSuffix(link, `"`)
	return strings.ReplaceAll(link, `\/`, "/")
}

// ListAreas returns the reservable areas of a condominium: the list as
// returned, the areas_semelhantes of a single object, or an empty list.
func (c *Client) ListAreas(ctx context.Context, creds Credentials, condominiumID string) ([]json.RawMessage, error) {
	value, err := c.getValue(ctx, creds, endpointAreas, url.Values{"idCondominio": {condominiumID}})
	if err != nil {
		return nil, err
	}
	if value == nil {
		return []json.RawMessage{}, nil
	}

	switch value[0] {
	case '[':
		var areas []json.RawMessage
		if err := json.Unmarshal(value, &areas); err != nil {
			return nil, &Error{Message: msgInvalidResponse, cause: err}
		}
		return areas, nil
	case '{':
		var wrapper struct {
			Similar []json.RawMessage `json:"areas_semelhantes"`
		}
		if json.Unmarshal(value, &wrapper) == nil && wrapper.Similar != nil {
			return wrapper.Similar, nil
		}
	}
	return []json.RawMessage{}, nil
}

// ListAreaBookings returns the active bookings of one area untouched.
func (c *Client) ListAreaBookings(ctx context.Context, creds Credentials, condominiumID, areaID string) (json.RawMessage, error) {
	query := url.Values{
		"idCondominio": {condominiumID},
		"idArea":       {areaID},
		"status":       {activeBookingStatuses},
	}
	value, err := c.getValue(ctx, creds, endpointAreaBookings, query)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return json.RawMessage("[]"), nil
	}
	return value, nil
}

// ListCondominiumBookings returns every area of a condominium with its
// active bookings. The API answers either with a list of areas or with
// an object of groups, each holding areas_semelhantes.
func (c *Client) ListCondominiumBookings(ctx context.Context, creds Credentials, condominiumID string) ([]AreaBookings, error) {
	query := url.Values{
		"idCondominio": {condominiumID},
		"status":       {activeBookingStatuses},
	}
	value, err := c.getValue(ctx, creds, endpointAreaBookings, query)
	if err != nil || value == nil {
		return nil, err
	}

	var items []json.RawMessage
	switch value[0] {
	case '[':
		if err := json.Unmarshal(value, &items); err != nil {
			return nil, &Error{Message: msgInvalidResponse, cause: err}
		}
	case '{':
		var groups map[string]json.RawMessage
		if err := json.Unmarshal(value, &groups); err != nil {
			return nil, &Error{Message: msgInvalidResponse, cause: err}
		}
		for _, raw := range groups {
			var group struct {
				Similar []json.RawMessage `json:"areas_semelhantes"`
			}
			if json.Unmarshal(raw, &group) == nil {
				items = append(items, group.Similar...)
			}
		}
	}
	return decodeList[AreaBookings](ctx, endpointAreaBookings, items), nil
}

// HasDelinquencies reports whether the unit has any delinquency record at
// the given date. Only a non-empty list counts.
func (c *Client) HasDelinquencies(ctx context.Context, creds Credentials, condominiumID, unitID string, at time.Time) (bool, error) {
	query := url.Values{
		"idCondominio":   {condominiumID},
		"id":             {unitID},
		"posicaoEm":      {at.Format(DateLayout)},
		"itensPorPagina": {"50"},
	}
	value, err := c.getValue(ctx, creds, endpointDelinquencies, query)
	if err != nil || value == nil {
		return false, err
	}
	if value[0] != '[' {
		return false, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(value, &records); err != nil {
		return false, &Error{Message: msgInvalidResponse, cause: err}
	}
	return len(records) > 0, nil
}

// CreateBooking requests an unconfirmed booking.
func (c *Client) CreateBooking(ctx context.Context, creds Credentials, b NewBooking) (json.RawMessage, error) {
	form := url.Values{
		"ID_CONDOMINIO_COND":       {b.CondominiumID},
		"ID_UNIDADE_UNI":           {b.UnitID},
		"ID_AREA_ARE":              {b.AreaID},
		"DT_RESERVA_RES":           {b.Date},
		"FL_RESERVA_JA_CONFIRMADA": {"0"},
	}
	return c.sendForm(ctx, creds, http.MethodPost, endpointBookings, form)
}

// CancelBooking cancels a booking and notifies the condominium.
func (c *Client) CancelBooking(ctx context.Context, creds Credentials, cancel Cancellation) (json.RawMessage, error) {
	form := url.Values{
		"ID_AREA_ARE":                {cancel.AreaID},
		"ID_RESERVA_RES":             {cancel.BookingID},
		"ID_CONDOMINIO_COND":         {cancel.CondominiumID},
		"ST_MOTIVOCANCELAMENTO_RES":  {cancel.Reason},
		"FL_NAO_NOTIFICAR_CONDOMINO": {"0"},
	}
	return c.sendForm(ctx, creds, http.MethodPut, endpointCancel, form)
}
