package service

import (
	"context"
	"fmt"
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
	msgCondominiumForbidden = "Acesso não autorizado a este condomínio."
	msgInvalidDueDate       = "Data de vencimento inválida."
)

// Visibility window of a charge, in days relative to today.
const (
	dueSoonDays  = 30
	overdueDays  = 60
	displayDate  = "02/01/2006"
	chargesSince = 2020
)

// InvoiceService lists the open charges of the units in a claim.
type InvoiceService struct {
	tenants  *TenantService
	contacts *ContactService
	upstream Upstream
	clock    clockwork.Clock
}

func NewInvoiceService(tenants *TenantService, contacts *ContactService, upstream Upstream, clock clockwork.Clock) *InvoiceService {
	return &InvoiceService{tenants: tenants, contacts: contacts, upstream: upstream, clock: clock}
}

// visibility classifies a charge due days from today (negative when
// overdue). Charges due within 30 days or overdue up to 60 days are
// shown; older debt is only flagged.
type visibility int

const (
	hidden visibility = iota
	visible
	oldDebt
)

func classify(days int) visibility {
	switch {
	case days >= 0 && days <= dueSoonDays:
		return visible
	case days < 0 && days >= -overdueDays:
		return visible
	case days < -overdueDays:
		return oldDebt
	default:
		return hidden
	}
}

// parseDueDate reads the MM/DD/YYYY date Superlógica returns, ignoring
// any time suffix.
func parseDueDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		raw = raw[:i]
	}
	t, err := time.Parse(superlogica.DateLayout, raw)
	if err != nil || t.Year() < 1900 || t.Year() > 2100 {
		return time.Time{}, false
	}
	return t, true
}

// daysUntil is the whole number of days from today to due, on UTC dates.
func daysUntil(due, now time.Time) int {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(today).Round(24*time.Hour) / (24 * time.Hour))
}

// formatAmount renders a Superlógica amount as "R$ 1234,56".
func formatAmount(total superlogica.FlexString) string {
	value, ok := total.Float()
	if !ok {
		value = 0
	}
	return "R$ " + strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1)
}

// List fetches the charges of every unit in the claim and groups the
// visible ones per unit. A unit whose charges cannot be fetched is
// logged and left out.
func (s *InvoiceService) List(ctx context.Context, claims *magiclink.Claims) (*model.InvoiceListResponse, error) {
	logger := zerolog.Ctx(ctx)

	tenant, creds, err := s.tenants.Credentials(ctx, claims.Subdomain)
	if err != nil {
		return nil, err
	}

	cards, err := s.contacts.CardsByCondominium(ctx, tenant.ID)
	if err != nil {
		logger.Error().Err(err).Int64("tenant_id", tenant.ID).Msg("failed to load legal contacts, continuing without them")
		cards = nil
	}

	now := s.clock.Now().UTC()
	from := time.Date(chargesSince, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC)

	groups := make([]model.InvoiceGroup, 0, len(claims.Units))
	for _, unit := range claims.Units {
		charges, err := s.upstream.ListCharges(ctx, creds, unit.CondominiumID, unit.UnitID, from, to)
		if err != nil {
			logger.Error().Err(err).
				Str("condominium_id", unit.CondominiumID).
				Str("unit_id", unit.UnitID).
				Msg("failed to list charges of unit, skipping")
			continue
		}

		group := model.InvoiceGroup{
			Condominium:     unit.CondominiumName,
			Unit:            unit.Label,
			VisibleInvoices: []model.Invoice{},
			LegalContact:    cards[unit.CondominiumID],
		}

		for _, charge := range charges {
			if charge.Paid() {
				continue
			}
			due, ok := parseDueDate(charge.DueDate.String())
			if !ok {
				logger.Warn().Str("charge_id", charge.ID.String()).Str("due_date", charge.DueDate.String()).Msg("ignoring charge with invalid due date")
				continue
			}

			switch classify(daysUntil(due, now)) {
			case visible:
				group.VisibleInvoices = append(group.VisibleInvoices, model.Invoice{
					ID:            charge.ID.String(),
					DueDate:       due.Format(displayDate),
					Amount:        formatAmount(charge.Total),
					PDFLink:       charge.SecondCopyLink.String(),
					CondominiumID: unit.CondominiumID,
				})
			case oldDebt:
				group.HasOldDebt = true
			}
		}

		groups = append(groups, group)
	}

	logger.Info().Int("groups", len(groups)).Msg("invoices listed")
	return &model.InvoiceListResponse{GroupedResults: groups}, nil
}

// PDFLink generates the second-copy link of one charge.
func (s *InvoiceService) PDFLink(ctx context.Context, claims *magiclink.Claims, req *model.InvoiceLinkRequest) (*model.InvoiceLinkResponse, error) {
	condominiumID := req.CondominiumID.String()
	if !claims.CoversCondominium(condominiumID) {
		return nil, errs.NewForbiddenError(msgCondominiumForbidden, true)
	}

	due, err := time.Parse(displayDate, req.DueDate)
	if err != nil {
		return nil, errs.NewBadRequestError(msgInvalidDueDate, true, nil, []errs.FieldError{{
			Field: "vencimento",
			Error: "must be DD/MM/YYYY",
		}}, nil)
	}

	_, creds, err := s.tenants.Credentials(ctx, claims.Subdomain)
	if err != nil {
		return nil, err
	}

	link, err := s.upstream.SecondCopyLink(ctx, creds, condominiumID, req.ChargeID.String(), due)
	if err != nil {
		return nil, err
	}

	return &model.InvoiceLinkResponse{PDFLink: link}, nil
}
