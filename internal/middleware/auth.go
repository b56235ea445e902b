package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/linkcondo/internal/errs"
	"github.com/deppfellow/linkcondo/internal/server"
	"github.com/labstack/echo/v4"
)

const msgAdminUnauthorized = "Acesso não autorizado"

// AuthMiddleware authenticates admin panel requests with Clerk.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth verifies the Clerk session token of the Authorization
// header. Missing or invalid tokens get the standard 401 error body;
// verified requests carry user_id and user_role in the echo context and
// in the request logger.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized)),
		),
	)(func(c echo.Context) error {
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if !ok {
			GetLogger(c).Warn().Msg("clerk session claims missing from context")
			return errs.NewUnauthorizedError(msgAdminUnauthorized, true)
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.ActiveOrganizationRole)

		l := GetLogger(c).With().Str("user_id", claims.Subject).Logger()
		if claims.ActiveOrganizationRole != "" {
			l = l.With().Str("user_role", claims.ActiveOrganizationRole).Logger()
		}
		SetLogger(c, l)

		return next(c)
	})
}

func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError(msgAdminUnauthorized, true)); err != nil {
		auth.server.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write unauthorized response")
		return
	}
	auth.server.Logger.Warn().Str("path", r.URL.Path).Msg("admin request rejected by clerk")
}
