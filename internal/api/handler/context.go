package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandstay/booking-console/internal/api/middleware"
	"github.com/grandstay/booking-console/internal/core/domain"
)

// ctxIdentity extracts the identity injected by RequireSession. A missing or
// role-less identity means the middleware did not run; reject with 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := c.Get(middleware.IdentityKey).(domain.Identity)
	if !ok || id.Role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return id, nil
}
