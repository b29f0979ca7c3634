package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/grandstay/booking-console/docs"
	"github.com/grandstay/booking-console/internal/api/handler"
	"github.com/grandstay/booking-console/internal/api/middleware"
	"github.com/grandstay/booking-console/internal/core/policy"
	"github.com/grandstay/booking-console/internal/core/ports"
	"github.com/grandstay/booking-console/internal/core/validation"
)

// Dependencies are the services the console routes call into.
type Dependencies struct {
	Sessions ports.SessionService
	Bookings ports.BookingService
	Queries  ports.BookingQueryService
	Profiles ports.ProfileService
	// Checks are the readiness checks keyed by dependency name.
	Checks map[string]handler.Checker
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking_console"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	bookingHandler := handler.NewBookingHandler(deps.Bookings, deps.Queries)
	dashboardHandler := handler.NewDashboardHandler(deps.Queries)
	customerHandler := handler.NewCustomerHandler(deps.Profiles)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/validate", authHandler.Validate)
	e.GET("/auth/me", authHandler.Me)

	// --- Console routes (session required) ---
	v1 := e.Group("/v1", middleware.RequireSession(deps.Sessions))

	v1.GET("/bookings", bookingHandler.List,
		middleware.RequireOperation(policy.ViewAllBookings, policy.ViewOwnBookings))
	v1.GET("/bookings/:id", bookingHandler.Get,
		middleware.RequireOperation(policy.ViewAllBookings, policy.ViewOwnBookings))
	v1.POST("/bookings", bookingHandler.Create,
		middleware.RequireOperation(policy.CreateBooking))
	v1.PUT("/bookings/:id/status", bookingHandler.UpdateStatus,
		middleware.RequireOperation(policy.ManageBookings, policy.CancelOwnBooking))
	v1.GET("/dashboard/stats", dashboardHandler.Stats,
		middleware.RequireOperation(policy.ViewDashboard))
	v1.PUT("/customers/:id", customerHandler.UpdateProfile,
		middleware.RequireOperation(policy.ManageCustomers, policy.ManageOwnProfile))

	// --- Health checks (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
