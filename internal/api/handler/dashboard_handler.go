package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grandstay/booking-console/internal/core/ports"
)

type DashboardHandler struct {
	queries ports.BookingQueryService
}

func NewDashboardHandler(queries ports.BookingQueryService) *DashboardHandler {
	return &DashboardHandler{queries: queries}
}

// Stats handles GET /v1/dashboard/stats.
//
// @Summary      Booking totals for the dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200   {object}  query.Stats
// @Failure      403   {object}  map[string]string
// @Router       /v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.queries.Stats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
