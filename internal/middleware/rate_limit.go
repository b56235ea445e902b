package middleware

import (
	"time"

	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const msgTooManyRequests = "Muitas solicitações. Aguarde alguns minutos e tente novamente."

// RateLimitMiddleware throttles the public magic link endpoint per client
// IP and reports every refused request to New Relic.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns a limiter allowing RequestsPerMinute with the configured
// burst, keyed by the client IP as resolved by IPExtractor. Visitors idle for 10 minutes are dropped
// from the in-memory store.
func (r *RateLimitMiddleware) Limit(endpoint string) echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.RequestsPerMinute) / 60),
		Burst:     cfg.Burst,
		ExpiresIn: 10 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewTooManyRequestsError(msgTooManyRequests)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			GetLogger(c).Warn().Str("endpoint", endpoint).Msg("rate limit hit")
			r.RecordRateLimitHit(endpoint)
			return errs.NewTooManyRequestsError(msgTooManyRequests)
		},
	})
}

func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
