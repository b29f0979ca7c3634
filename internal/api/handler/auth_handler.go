package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandstay/booking-console/internal/api/metrics"
	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionService
}

func NewAuthHandler(sessions ports.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login authenticates against the booking service and opens the console session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sess, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.Reason(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, newSessionResponse(*sess.Identity))
}

// Logout closes the console session. It succeeds without a session.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Validate re-checks the session token with the booking service.
//
// @Summary      Validate session
// @Tags         auth
// @Produce      json
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/validate [post]
func (h *AuthHandler) Validate(c echo.Context) error {
	id, err := h.sessions.Validate(c.Request().Context())
	if err != nil {
		result := metrics.Reason(err)
		if !errors.Is(err, domain.ErrNoSession) && !domain.IsConnectivity(err) {
			result = "invalid"
		}
		metrics.SessionValidationsTotal.WithLabelValues(result).Inc()
		return err
	}
	metrics.SessionValidationsTotal.WithLabelValues("valid").Inc()
	return c.JSON(http.StatusOK, newSessionResponse(id))
}

// Me returns the current identity without a round trip.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := h.sessions.Identity()
	if !ok {
		return domain.ErrNoSession
	}
	return c.JSON(http.StatusOK, newSessionResponse(id))
}
