package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/policy"
	"github.com/grandstay/booking-console/internal/core/ports"
	"github.com/grandstay/booking-console/internal/core/query"
)

// BookingQueryService is the data-access boundary for booking lists. It asks
// the server for the narrowest list the requester may see and filters again
// locally.
type BookingQueryService struct {
	bookings ports.BookingGateway
	overlay  func([]domain.Booking) []domain.Booking
	log      zerolog.Logger
	now      func() time.Time
}

// NewBookingQueryService returns a BookingQueryService. overlay, when set,
// applies in-flight transitions to every list fetched from the server.
func NewBookingQueryService(bookings ports.BookingGateway, overlay func([]domain.Booking) []domain.Booking, log zerolog.Logger) *BookingQueryService {
	return &BookingQueryService{bookings: bookings, overlay: overlay, log: log, now: time.Now}
}

// List returns the bookings visible to requester.
func (s *BookingQueryService) List(ctx context.Context, requester domain.Identity) ([]domain.Booking, error) {
	var filter ports.BookingFilter
	switch {
	case policy.CanAccess(requester.Role, policy.ViewAllBookings):
	case policy.CanAccess(requester.Role, policy.ViewOwnBookings):
		if !requester.HasSubject() {
			return nil, fmt.Errorf("list bookings: %w", domain.ErrIdentityIncomplete)
		}
		filter.CustomerID = requester.SubjectID
	default:
		return nil, fmt.Errorf("list bookings: %w", domain.ErrForbidden)
	}

	all, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if s.overlay != nil {
		all = s.overlay(all)
	}

	visible := query.VisibleTo(requester, all)
	if dropped := len(all) - len(visible); dropped > 0 {
		s.log.Warn().Int("dropped", dropped).Int64("customer_id", filter.CustomerID).Msg("server returned bookings outside requester scope")
	}
	return visible, nil
}

// Stats summarises every booking for the dashboard.
func (s *BookingQueryService) Stats(ctx context.Context, requester domain.Identity) (*query.Stats, error) {
	if !policy.CanAccess(requester.Role, policy.ViewDashboard) {
		return nil, fmt.Errorf("dashboard stats: %w", domain.ErrForbidden)
	}
	all, err := s.List(ctx, requester)
	if err != nil {
		return nil, err
	}
	stats := query.Summarize(all, domain.DateOf(s.now()))
	return &stats, nil
}
