package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/grandstay/booking-console/internal/api/metrics"
	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
	"github.com/grandstay/booking-console/internal/core/query"
)

// Booking list views.
const (
	viewAll      = "all"
	viewUpcoming = "upcoming"
	viewHistory  = "history"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	bookings ports.BookingService
	queries  ports.BookingQueryService
	now      func() time.Time
}

func NewBookingHandler(bookings ports.BookingService, queries ports.BookingQueryService) *BookingHandler {
	return &BookingHandler{bookings: bookings, queries: queries, now: time.Now}
}

func (h *BookingHandler) today() domain.Date {
	return domain.DateOf(h.now())
}

// List handles GET /v1/bookings.
//
// @Summary      List bookings visible to the current user
// @Tags         bookings
// @Produce      json
// @Param        view  query     string  false  "all, upcoming or history"  default(all)
// @Param        q     query     string  false  "Search on customer name, hotel name or id"
// @Success      200   {object}  listBookingsResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	view := c.QueryParam("view")
	if view == "" {
		view = viewAll
	}
	if view != viewAll && view != viewUpcoming && view != viewHistory {
		return echo.NewHTTPError(http.StatusBadRequest, "view must be one of: all, upcoming, history")
	}

	all, err := h.queries.List(c.Request().Context(), id)
	if err != nil {
		return err
	}

	today := h.today()
	items := query.Search(all, c.QueryParam("q"))
	switch view {
	case viewUpcoming:
		items = query.Partition(items, today).Upcoming
	case viewHistory:
		items = query.Partition(items, today).History
	}

	return c.JSON(http.StatusOK, listBookingsResponse{
		View:  view,
		Items: newBookingViews(items, today),
		Count: len(items),
	})
}

// Get handles GET /v1/bookings/:id. A transition still waiting for the
// booking service shows its requested status.
//
// @Summary      Get one booking
// @Tags         bookings
// @Produce      json
// @Param        id    path      int  true  "Booking id"
// @Success      200   {object}  bookingView
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	b, err := h.bookings.Get(c.Request().Context(), id, bookingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newBookingView(*b, h.today()))
}

// Create handles POST /v1/bookings.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body  body      createBookingRequest  true  "Booking request"
// @Success      201   {object}  bookingView
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	b, err := h.bookings.Create(c.Request().Context(), id, req.toDraft())
	if err != nil {
		metrics.BookingErrorsTotal.WithLabelValues("create", metrics.Reason(err)).Inc()
		return err
	}
	metrics.BookingsCreatedTotal.WithLabelValues(string(id.Role)).Inc()

	return c.JSON(http.StatusCreated, newBookingView(*b, h.today()))
}

// UpdateStatus handles PUT /v1/bookings/:id/status.
//
// @Summary      Change a booking's status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Booking id"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  bookingView
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	target, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	b, err := h.bookings.Transition(c.Request().Context(), bookingID, target, id)
	if err != nil {
		metrics.BookingErrorsTotal.WithLabelValues("transition", metrics.Reason(err)).Inc()
		return err
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(b.Status)).Inc()

	return c.JSON(http.StatusOK, newBookingView(*b, h.today()))
}
