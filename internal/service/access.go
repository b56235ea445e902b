package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/deppfellow/linkcondo/internal/config"
	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/lib/job"
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/deppfellow/linkcondo/internal/metrics"
	"github.com/deppfellow/linkcondo/internal/model"
	"github.com/deppfellow/linkcondo/internal/superlogica"
	"github.com/rs/zerolog"
)

const (
	msgLinkMaybeSent = "Se o seu e-mail estiver cadastrado, você receberá um link em breve."
	msgLinkSent      = "Link de validação de acesso enviado para o seu e-mail com sucesso!"
	msgTokensMissing = "Erro interno de configuração [Admin Tokens Missing]."
	msgDecryptFailed = "Erro interno de segurança [Decrypt Failed]."
	msgEmailFailed   = "Ocorreu um erro ao tentar enviar o e-mail."
)

// portalPath is where the frontend reads the token from the query string.
const portalPath = "/portal"

// AccessService issues magic links to residents.
type AccessService struct {
	tenants    *TenantService
	upstream   Upstream
	signer     *magiclink.Signer
	mail       MailQueue
	metrics    *metrics.Metrics
	baseURL    string
	production bool
}

func NewAccessService(
	tenants *TenantService,
	upstream Upstream,
	signer *magiclink.Signer,
	mail MailQueue,
	m *metrics.Metrics,
	cfg *config.Config,
) *AccessService {
	return &AccessService{
		tenants:    tenants,
		upstream:   upstream,
		signer:     signer,
		mail:       mail,
		metrics:    m,
		baseURL:    cfg.MagicLink.BaseURL,
		production: cfg.Primary.IsProduction(),
	}
}

// RequestLink looks the email up among the tenant's unit contacts and, on
// a match, emails a link covering every matching unit.
//
// Unknown tenants and emails get the same reply as a success would, so
// the endpoint cannot be used to probe who lives where.
func (s *AccessService) RequestLink(ctx context.Context, req *model.MagicLinkRequest, host string) (*model.MessageResponse, error) {
	action := magiclink.Action(req.Action)
	logger := zerolog.Ctx(ctx).With().
		Str("subdomain", req.Subdomain).
		Str("acao", req.Action).
		Logger()

	noMatch := func(reason string) (*model.MessageResponse, error) {
		s.metrics.MagicLinkRequested(req.Action, metrics.OutcomeNoMatch)
		logger.Info().Str("reason", reason).Msg("magic link not issued")
		return &model.MessageResponse{Message: msgLinkMaybeSent}, nil
	}

	tenant, err := s.tenants.Lookup(ctx, req.Subdomain)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return noMatch("unknown tenant")
	}

	creds, err := s.tenants.Unseal(tenant)
	if err != nil {
		s.metrics.MagicLinkRequested(req.Action, metrics.OutcomeFailed)
		logger.Error().Err(err).Msg("tenant credentials unavailable")
		if errors.Is(err, ErrMissingCredentials) {
			return nil, errs.NewInternalServerErrorWithMessage(msgTokensMissing)
		}
		return nil, errs.NewInternalServerErrorWithMessage(msgDecryptFailed)
	}

	found, err := s.upstream.SearchUnitsByEmail(ctx, creds, req.Email)
	if err != nil {
		s.metrics.MagicLinkRequested(req.Action, metrics.OutcomeFailed)
		return nil, err
	}
	if len(found) == 0 {
		return noMatch("no units found")
	}

	units := matchingUnits(found, req.Email)
	if len(units) == 0 {
		return noMatch("email not listed in unit contacts")
	}

	token, claims, err := s.signer.Issue(units, req.Subdomain, action)
	if err != nil {
		s.metrics.MagicLinkRequested(req.Action, metrics.OutcomeFailed)
		return nil, err
	}

	err = s.mail.EnqueueMagicLinkEmail(ctx, job.MagicLinkEmailPayload{
		To:           req.Email,
		Link:         s.portalLink(host, token),
		AccessLabel:  action.Label(),
		CompanyName:  tenant.CompanyName,
		ValidMinutes: int(s.signer.TTL().Minutes()),
		Subdomain:    req.Subdomain,
	}, claims.ExpiresAt.Time)
	if err != nil {
		s.metrics.MagicLinkRequested(req.Action, metrics.OutcomeFailed)
		logger.Error().Err(err).Msg("failed to enqueue magic link email")
		return nil, errs.NewInternalServerErrorWithMessage(msgEmailFailed)
	}

	s.metrics.MagicLinkRequested(req.Action, metrics.OutcomeSent)
	logger.Info().Int("units", len(units)).Msg("magic link issued")

	return &model.MessageResponse{Message: msgLinkSent}, nil
}

// portalLink builds <origin>/portal?token=<jwt>. The origin is the
// configured base URL or, failing that, the host the request came in on.
func (s *AccessService) portalLink(host, token string) string {
	origin := s.baseURL
	if origin == "" {
		scheme := "http"
		if s.production {
			scheme = "https"
		}
		origin = fmt.Sprintf("%s://%s", scheme, host)
	}
	return origin + portalPath + "?token=" + url.QueryEscape(token)
}

// matchingUnits keeps the units whose contacts list email.
func matchingUnits(found []superlogica.Unit, email string) []magiclink.Unit {
	var units []magiclink.Unit
	for _, u := range found {
		if !u.ListsEmail(email) {
			continue
		}

		name := u.CondominiumName.String()
		if name == "" {
			name = "Condomínio ID " + u.CondominiumID.String()
		}

		units = append(units, magiclink.Unit{
			CondominiumID:   u.CondominiumID.String(),
			CondominiumName: name,
			UnitID:          u.UnitID.String(),
			Label:           strings.TrimSpace(u.Number.String() + " " + u.Block.String()),
		})
	}
	return units
}
