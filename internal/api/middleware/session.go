package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandstay/booking-console/internal/core/domain"
)

// IdentityKey is the echo context key holding the caller's domain.Identity.
const IdentityKey = "identity"

// IdentitySource exposes the console's current identity.
type IdentitySource interface {
	Identity() (domain.Identity, bool)
}

// RequireSession rejects requests while no session is active and injects the
// session identity into the context.
func RequireSession(sessions IdentitySource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := sessions.Identity()
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}
			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}
