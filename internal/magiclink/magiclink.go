// Package magiclink issues and verifies the signed claim carried by the
// resident access links.
//
// A link grants access to a fixed set of units of one tenant for one
// purpose (boletos or reservas). The claim is an HS256 JWT:
//
//	{
//	  "unidades":  [{"idCondominio": "12", "nomeCondominio": "...", "idUnidade": "340", "unidade": "101 A"}],
//	  "subdomain": "acme",
//	  "acao":      "boletos",
//	  "iat": ..., "exp": ..., "jti": ...
//	}
//
// Everything a resident can reach is derived from this claim: the
// tenant from the subdomain, and condominiums/units from the list.
package magiclink

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Action is the purpose a link was issued for.
type Action string

const (
	ActionBoletos  Action = "boletos"
	ActionReservas Action = "reservas"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a == ActionBoletos || a == ActionReservas
}

// Label is the title-cased action used in email subjects.
func (a Action) Label() string {
	switch a {
	case ActionBoletos:
		return "Boletos"
	case ActionReservas:
		return "Reservas"
	default:
		return string(a)
	}
}

const issuer = "linkcondo"

var (
	// ErrInvalidToken covers malformed, wrongly signed and incomplete claims.
	ErrInvalidToken = errors.New("magic link token is invalid")

	// ErrExpiredToken is returned once the claim is past its expiry.
	ErrExpiredToken = errors.New("magic link token is expired")
)

// Unit is one unit a resident is linked to.
type Unit struct {
	CondominiumID   string `json:"idCondominio"`
	CondominiumName string `json:"nomeCondominio"`
	UnitID          string `json:"idUnidade"`
	Label           string `json:"unidade"`
}

// Claims is the verified content of a magic link.
type Claims struct {
	jwt.RegisteredClaims
	Units     []Unit `json:"unidades"`
	Subdomain string `json:"subdomain"`
	Action    Action `json:"acao"`
}

// CoversCondominium reports whether any unit belongs to condominiumID.
func (c *Claims) CoversCondominium(condominiumID string) bool {
	return slices.ContainsFunc(c.Units, func(u Unit) bool {
		return u.CondominiumID == condominiumID
	})
}

// CoversUnit reports whether the claim includes unitID of condominiumID.
func (c *Claims) CoversUnit(condominiumID, unitID string) bool {
	return slices.ContainsFunc(c.Units, func(u Unit) bool {
		return u.CondominiumID == condominiumID && u.UnitID == unitID
	})
}

// UnitIDsIn lists the unit ids the claim holds in condominiumID.
func (c *Claims) UnitIDsIn(condominiumID string) []string {
	var ids []string
	for _, u := range c.Units {
		if u.CondominiumID == condominiumID {
			ids = append(ids, u.UnitID)
		}
	}
	return ids
}

// FirstCondominium is the condominium of the first unit, or "".
func (c *Claims) FirstCondominium() string {
	if len(c.Units) == 0 {
		return ""
	}
	return c.Units[0].CondominiumID
}

// Signer issues and verifies claims with one HMAC secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewSigner creates a signer. A nil clock uses the real clock.
func NewSigner(secret string, ttl time.Duration, clock clockwork.Clock) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("magic link signing secret is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("magic link ttl must be positive, got %s", ttl)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Signer{secret: []byte(secret), ttl: ttl, clock: clock}, nil
}

// TTL is how long issued links stay valid.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a claim for units of subdomain.
func (s *Signer) Issue(units []Unit, subdomain string, action Action) (string, *Claims, error) {
	if len(units) == 0 {
		return "", nil, errors.New("magic link needs at least one unit")
	}
	if subdomain == "" {
		return "", nil, errors.New("magic link needs a subdomain")
	}
	if !action.Valid() {
		return "", nil, fmt.Errorf("unknown magic link action %q", action)
	}

	now := s.clock.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Units:     units,
		Subdomain: subdomain,
		Action:    action,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign magic link: %w", err)
	}
	return token, claims, nil
}

// Verify parses token and checks signature, algorithm, expiry and content.
func (s *Signer) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if len(claims.Units) == 0 || claims.Subdomain == "" || !claims.Action.Valid() {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
