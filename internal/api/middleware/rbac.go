package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/policy"
)

// RequireOperation enforces the access policy: the caller's role must be
// allowed at least one of ops. Must run after RequireSession.
func RequireOperation(ops ...policy.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := c.Get(IdentityKey).(domain.Identity)
			for _, op := range ops {
				if policy.CanAccess(id.Role, op) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
