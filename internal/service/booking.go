package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/superlogica"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	msgUnitForbidden       = "Acesso não autorizado a esta unidade/condomínio."
	msgBookingDelinquent   = "Reserva não permitida conforme as regras definidas. Verifique se consta pendência na sua unidade ou procure a administração do condomínio."
	msgInvalidBookingDate  = "Data da reserva inválida."
	msgBookingRequested    = "Solicitação de reserva enviada com sucesso! Aguarde a confirmação."
	msgBookingCancelled    = "Reserva cancelada com sucesso!"
	unknownAreaName        = "Área desconhecida"
	blockDelinquentEnabled = "1"
)

// bookingDateLayouts are the date forms accepted for a new booking.
var bookingDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	displayDate,
}

// BookingService serves the amenity booking pages of a reservas link.
type BookingService struct {
	tenants  *TenantService
	upstream Upstream
	clock    clockwork.Clock
}

func NewBookingService(tenants *TenantService, upstream Upstream, clock clockwork.Clock) *BookingService {
	return &BookingService{tenants: tenants, upstream: upstream, clock: clock}
}

func (s *BookingService) credentials(ctx context.Context, claims *magiclink.Claims) (superlogica.Credentials, error) {
	_, creds, err := s.tenants.Credentials(ctx, claims.Subdomain)
	return creds, err
}

// Areas lists the reservable areas of a condominium in the claim.
func (s *BookingService) Areas(ctx context.Context, claims *magiclink.Claims, req *model.AreasRequest) ([]json.RawMessage, error) {
	condominiumID := req.CondominiumID.String()
	if !claims.CoversCondominium(condominiumID) {
		return nil, errs.NewForbiddenError(msgCondominiumForbidden, true)
	}

	creds, err := s.credentials(ctx, claims)
	if err != nil {
		return nil, err
	}

	return s.upstream.ListAreas(ctx, creds, condominiumID)
}

// AreaBookings returns the active bookings of one area. Without a
// condominium the first unit's condominium is used.
func (s *BookingService) AreaBookings(ctx context.Context, claims *magiclink.Claims, req *model.AreaBookingsRequest) (json.RawMessage, error) {
	condominiumID := req.CondominiumID.String()
	if condominiumID == "" {
		condominiumID = claims.FirstCondominium()
	}
	if !claims.CoversCondominium(condominiumID) {
		return nil, errs.NewForbiddenError(msgCondominiumForbidden, true)
	}

	creds, err := s.credentials(ctx, claims)
	if err != nil {
		return nil, err
	}

	return s.upstream.ListAreaBookings(ctx, creds, condominiumID, req.AreaID.String())
}

// MyBookings lists the bookings made by the claim's units in a
// condominium, newest booking date first.
func (s *BookingService) MyBookings(ctx context.Context, claims *magiclink.Claims, req *model.MyBookingsRequest) ([]model.MyBooking, error) {
	condominiumID := req.CondominiumID.String()
	if !claims.CoversCondominium(condominiumID) {
		return nil, errs.NewForbiddenError(msgCondominiumForbidden, true)
	}

	creds, err := s.credentials(ctx, claims)
	if err != nil {
		return nil, err
	}

	areas, err := s.upstream.ListCondominiumBookings(ctx, creds, condominiumID)
	if err != nil {
		return nil, err
	}

	return ownBookings(areas, claims.UnitIDsIn(condominiumID)), nil
}

func ownBookings(areas []superlogica.AreaBookings, unitIDs []string) []model.MyBooking {
	own := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		own[id] = true
	}

	bookings := []model.MyBooking{}
	for _, area := range areas {
		name := area.AreaName.String()
		if name == "" {
			name = unknownAreaName
		}
		for _, b := range area.Bookings {
			unitID := b.UnitID.String()
			if !own[unitID] {
				continue
			}
			bookings = append(bookings, model.MyBooking{
				ID:               b.ID.String(),
				Date:             b.Date.String(),
				Status:           b.Status.String(),
				Queue:            b.Queue.String(),
				UnitID:           unitID,
				AreaName:         name,
				AreaID:           area.AreaID.String(),
				CancellationDays: area.MinCancelDaysAhead.Int(),
			})
		}
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		a, _ := parseDueDate(bookings[i].Date)
		b, _ := parseDueDate(bookings[j].Date)
		return a.After(b)
	})
	return bookings
}

// parseBookingDate reads the date picked by the resident.
func parseBookingDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range bookingDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Request books an area for a unit of the claim. The booking is always
// created unconfirmed. When the condominium blocks delinquent units,
// any delinquency at today's date refuses the booking.
func (s *BookingService) Request(ctx context.Context, claims *magiclink.Claims, req *model.BookingRequest) (*model.DataResponse, error) {
	logger := zerolog.Ctx(ctx)
	condominiumID := req.CondominiumID.String()
	unitID := req.UnitID.String()

	if !claims.CoversUnit(condominiumID, unitID) {
		return nil, errs.NewForbiddenError(msgUnitForbidden, true)
	}

	date, ok := parseBookingDate(req.Date)
	if !ok {
		return nil, errs.NewBadRequestError(msgInvalidBookingDate, true, nil, []errs.FieldError{{
			Field: "dataReserva",
			Error: "must be a date",
		}}, nil)
	}

	creds, err := s.credentials(ctx, claims)
	if err != nil {
		return nil, err
	}

	if req.BlockDelinquent.String() == blockDelinquentEnabled {
		delinquent, err := s.upstream.HasDelinquencies(ctx, creds, condominiumID, unitID, s.clock.Now().UTC())
		if err != nil {
			return nil, err
		}
		if delinquent {
			logger.Info().Str("condominium_id", condominiumID).Str("unit_id", unitID).Msg("booking blocked by delinquency")
			return nil, errs.NewForbiddenError(msgBookingDelinquent, true)
		}
	}

	data, err := s.upstream.CreateBooking(ctx, creds, superlogica.NewBooking{
		CondominiumID: condominiumID,
		UnitID:        unitID,
		AreaID:        req.AreaID.String(),
		Date:          date.Format(superlogica.DateLayout),
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("condominium_id", condominiumID).Str("unit_id", unitID).Str("area_id", req.AreaID.String()).Msg("booking requested")
	return &model.DataResponse{Message: msgBookingRequested, Data: data}, nil
}

// Cancel cancels a booking in a condominium of the claim.
func (s *BookingService) Cancel(ctx context.Context, claims *magiclink.Claims, req *model.CancelBookingRequest) (*model.DataResponse, error) {
	condominiumID := req.CondominiumID.String()
	if !claims.CoversCondominium(condominiumID) {
		return nil, errs.NewForbiddenError(msgCondominiumForbidden, true)
	}

	creds, err := s.credentials(ctx, claims)
	if err != nil {
		return nil, err
	}

	data, err := s.upstream.CancelBooking(ctx, creds, superlogica.Cancellation{
		CondominiumID: condominiumID,
		BookingID:     req.BookingID.String(),
		AreaID:        req.AreaID.String(),
		Reason:        req.Reason,
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("condominium_id", condominiumID).Str("booking_id", req.BookingID.String()).Msg("booking cancelled")
	return &model.DataResponse{Message: msgBookingCancelled, Data: data}, nil
}
