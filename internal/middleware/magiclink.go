package middleware

import (
	"errors"
	"strings"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/magiclink"
	"github.com/labstack/echo/v4"
)

const (
	// ClaimsKey stores the verified magic link claim in the echo context.
	ClaimsKey = "magic_link_claims"

	msgTokenInvalid  = "Token inválido ou expirado, renove seu acesso solicitando um novo link."
	msgActionInvalid = "Este link não dá acesso a esta área do portal."
)

// MagicLinkMiddleware authenticates resident requests with the claim
// carried by the emailed link.
type MagicLinkMiddleware struct {
	signer *magiclink.Signer
}

func NewMagicLinkMiddleware(signer *magiclink.Signer) *MagicLinkMiddleware {
	return &MagicLinkMiddleware{signer: signer}
}

// RequireClaims verifies the bearer token (or ?token= on link landings)
// and stores its claim for the handler. An empty action accepts links of
// any action; otherwise a link issued for a different action is a 403.
func (m *MagicLinkMiddleware) RequireClaims(action magiclink.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.signer.Verify(bearerToken(c))
			if err != nil {
				GetLogger(c).Warn().
					Bool("expired", errors.Is(err, magiclink.ErrExpiredToken)).
					Msg("magic link rejected")
				return tokenInvalidError()
			}

			if action != "" && claims.Action != action {
				return errs.NewForbiddenError(msgActionInvalid, true)
			}

			c.Set(ClaimsKey, claims)
			SetLogger(c, GetLogger(c).With().
				Str("subdomain", claims.Subdomain).
				Str("acao", string(claims.Action)).
				Str("link_id", claims.ID).
				Logger())

			return next(c)
		}
	}
}

// GetClaims returns the claim stored by RequireClaims.
func GetClaims(c echo.Context) (*magiclink.Claims, error) {
	if claims, ok := c.Get(ClaimsKey).(*magiclink.Claims); ok && claims != nil {
		return claims, nil
	}
	return nil, tokenInvalidError()
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return c.QueryParam("token")
}

func tokenInvalidError() *errs.HTTPError {
	return errs.NewUnauthorizedError(msgTokenInvalid, true).WithAction(&errs.Action{
		Type:    errs.ActionTypeRequestLink,
		Message: "Solicite um novo link de acesso.",
	})
}
