package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/grandstay/booking-console/internal/core/ports"
)

type CustomerHandler struct {
	profiles ports.ProfileService
}

func NewCustomerHandler(profiles ports.ProfileService) *CustomerHandler {
	return &CustomerHandler{profiles: profiles}
}

// UpdateProfile handles PUT /v1/customers/:id.
//
// @Summary      Update a customer profile
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Customer id"
// @Param        body  body      updateProfileRequest  true  "Profile"
// @Success      200   {object}  domain.Customer
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/customers/{id} [put]
func (h *CustomerHandler) UpdateProfile(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || customerID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	cust, err := h.profiles.Update(c.Request().Context(), id, customerID, req.toProfile())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cust)
}
