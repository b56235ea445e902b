package middleware

import (
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Middlewares groups every middleware component so the router builds
// them once and reuses them across route groups.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and
	// the global error handler.
	Global *GlobalMiddlewares

	// Auth guards the admin panel with Clerk session tokens.
	Auth *AuthMiddleware

	// MagicLink guards the resident portal with the signed link claim.
	MagicLink *MagicLinkMiddleware

	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	RateLimit       *RateLimitMiddleware
}

// NewMiddlewares wires the middleware with the server's dependencies. A
// nil New Relic application turns the tracing middleware into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		MagicLink:       NewMagicLinkMiddleware(s.Signer),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
