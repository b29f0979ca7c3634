package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/policy"
	"github.com/grandstay/booking-console/internal/core/ports"
	"github.com/grandstay/booking-console/internal/core/validation"
)

// BookingService implements booking creation and status transitions.
type BookingService struct {
	bookings  ports.BookingGateway
	rooms     ports.RoomCatalog
	validator *validation.Validator
	audit     ports.TransitionRecorder
	cache     *bookingCache
	log       zerolog.Logger
	now       func() time.Time
	newKey    func() string
}

// NewBookingService returns a BookingService. audit may be nil.
func NewBookingService(
	bookings ports.BookingGateway,
	rooms ports.RoomCatalog,
	validator *validation.Validator,
	audit ports.TransitionRecorder,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		rooms:     rooms,
		validator: validator,
		audit:     audit,
		cache:     newBookingCache(),
		log:       log,
		now:       time.Now,
		newKey:    uuid.NewString,
	}
}

func (s *BookingService) today() domain.Date {
	return domain.DateOf(s.now())
}

// Cached returns the optimistic view of a booking while its transition is
// waiting for the server.
func (s *BookingService) Cached(id int64) (domain.Booking, bool) {
	return s.cache.get(id)
}

// Overlay applies in-flight optimistic statuses to bookings read from the
// server.
func (s *BookingService) Overlay(bs []domain.Booking) []domain.Booking {
	return s.cache.overlay(bs)
}

// Get returns one booking as the console currently shows it: server state
// with any in-flight transition applied.
func (s *BookingService) Get(ctx context.Context, requester domain.Identity, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", bookingID, err)
	}
	if err := authorizeView(requester, *b); err != nil {
		return nil, fmt.Errorf("get booking %d: %w", bookingID, err)
	}
	view := s.cache.overlay([]domain.Booking{*b})[0]
	return &view, nil
}

// PriceFor returns the total for a stay: nights * pricePerNight.
func (s *BookingService) PriceFor(checkIn, checkOut domain.Date, pricePerNight decimal.Decimal) decimal.Decimal {
	return domain.PriceFor(checkIn, checkOut, pricePerNight)
}

// Create validates and prices draft, then submits it. Customers may only
// book for themselves. The returned booking is PENDING.
func (s *BookingService) Create(ctx context.Context, requester domain.Identity, draft domain.BookingDraft) (*domain.Booking, error) {
	if !policy.CanAccess(requester.Role, policy.CreateBooking) {
		return nil, fmt.Errorf("create booking: %w", domain.ErrForbidden)
	}
	if !requester.IsAdmin() {
		if !requester.HasSubject() {
			return nil, fmt.Errorf("create booking: %w", domain.ErrIdentityIncomplete)
		}
		if draft.CustomerID == 0 {
			draft.CustomerID = requester.SubjectID
		}
		if draft.CustomerID != requester.SubjectID {
			return nil, fmt.Errorf("create booking for customer %d: %w", draft.CustomerID, domain.ErrForbidden)
		}
	}

	var room *domain.Room
	roomMissing := false
	if draft.RoomID != nil {
		r, err := s.rooms.Room(ctx, *draft.RoomID)
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			roomMissing = true
		case err != nil:
			return nil, fmt.Errorf("create booking: load room %d: %w", *draft.RoomID, err)
		default:
			room = r
		}
	}

	if err := s.validateDraft(draft, room, roomMissing); err != nil {
		return nil, err
	}

	total := decimal.Zero
	if room != nil {
		total = domain.PriceFor(draft.CheckInDate, draft.CheckOutDate, room.PricePerNight)
	}

	b := domain.Booking{
		CustomerID:      draft.CustomerID,
		HotelID:         draft.HotelID,
		RoomID:          draft.RoomID,
		CheckInDate:     draft.CheckInDate,
		CheckOutDate:    draft.CheckOutDate,
		GuestCount:      draft.GuestCount,
		SpecialRequests: draft.SpecialRequests,
		Status:          domain.StatusPending,
		TotalAmount:     total,
	}

	key := s.newKey()
	created, err := s.bookings.Create(ctx, b, key)
	if err != nil {
		s.log.Error().Err(err).Str("idempotency_key", key).Msg("failed to create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if room != nil && !created.TotalAmount.Equal(total) {
		s.log.Warn().
			Int64("booking_id", created.ID).
			Str("server_total", created.TotalAmount.String()).
			Str("computed_total", total.String()).
			Msg("server total differs from computed price")
		created.TotalAmount = total
	}
	if created.Status == "" {
		created.Status = domain.StatusPending
	}

	s.log.Info().
		Int64("booking_id", created.ID).
		Int64("customer_id", created.CustomerID).
		Str("total", created.TotalAmount.String()).
		Msg("booking created")
	return created, nil
}

func (s *BookingService) validateDraft(draft domain.BookingDraft, room *domain.Room, roomMissing bool) error {
	err := s.validator.Booking(draft, room, s.today())
	if !roomMissing {
		return err
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		if err != nil {
			return err
		}
		verr = domain.NewValidationError()
	}
	verr.Add("roomId", "room not found")
	return verr
}

// Transition moves a booking to target. The booking is re-read from the
// server first, so checks run against fresh state. The local cache shows the
// new status while the request is in flight and is rolled back on failure.
func (s *BookingService) Transition(ctx context.Context, bookingID int64, target domain.BookingStatus, requester domain.Identity) (*domain.Booking, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("transition booking %d to %q: %w", bookingID, target, domain.ErrIllegalTransition)
	}

	current, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("transition booking %d: %w", bookingID, err)
	}
	// Ownership first, so a caller cannot learn the state of a booking
	// they may not touch.
	if err := authorizeTransition(requester, *current, target); err != nil {
		return nil, fmt.Errorf("transition booking %d to %s: %w", bookingID, target, err)
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("transition booking %d from %s to %s: %w", bookingID, current.Status, target, domain.ErrIllegalTransition)
	}
	if target == domain.StatusCancelled && !current.CheckInDate.After(s.today()) {
		return nil, fmt.Errorf("cancel booking %d checking in %s: %w", bookingID, current.CheckInDate, domain.ErrCancellationWindowClosed)
	}

	version := s.cache.applyOptimistic(*current, target)
	updated, err := s.bookings.UpdateStatus(ctx, bookingID, target)

	if ctxErr := ctx.Err(); ctxErr != nil {
		s.cache.rollback(bookingID, version)
		s.record(requester, *current, target, ports.OutcomeDiscarded, ctxErr)
		s.log.Warn().Int64("booking_id", bookingID).Msg("transition abandoned, response discarded")
		return nil, fmt.Errorf("transition booking %d: %w", bookingID, ctxErr)
	}
	if err != nil {
		if !s.cache.rollback(bookingID, version) {
			s.log.Debug().Int64("booking_id", bookingID).Msg("newer change in cache, skipping rollback")
		}
		s.record(requester, *current, target, ports.OutcomeRolledBack, err)
		return nil, fmt.Errorf("transition booking %d to %s: %w", bookingID, target, err)
	}

	if updated.Status != target {
		s.log.Warn().
			Int64("booking_id", bookingID).
			Str("requested", string(target)).
			Str("server", string(updated.Status)).
			Msg("server reported a different status, keeping server state")
	}
	s.cache.settle(bookingID, version)
	s.record(requester, *current, updated.Status, ports.OutcomeApplied, nil)

	s.log.Info().
		Int64("booking_id", bookingID).
		Str("from", string(current.Status)).
		Str("to", string(updated.Status)).
		Str("actor", requester.Username).
		Msg("booking status changed")
	return updated, nil
}

// authorizeView lets booking viewers see everything and customers see their
// own bookings.
func authorizeView(requester domain.Identity, b domain.Booking) error {
	if policy.CanAccess(requester.Role, policy.ViewAllBookings) {
		return nil
	}
	if !policy.CanAccess(requester.Role, policy.ViewOwnBookings) {
		return domain.ErrForbidden
	}
	if !requester.HasSubject() {
		return fmt.Errorf("%w: %w", domain.ErrForbidden, domain.ErrIdentityIncomplete)
	}
	if !b.IsOwnedBy(requester.SubjectID) {
		return domain.ErrForbidden
	}
	return nil
}

// authorizeTransition lets booking managers drive any legal transition and
// lets customers cancel their own bookings.
func authorizeTransition(requester domain.Identity, b domain.Booking, target domain.BookingStatus) error {
	if policy.CanAccess(requester.Role, policy.ManageBookings) {
		return nil
	}
	if target != domain.StatusCancelled || !policy.CanAccess(requester.Role, policy.CancelOwnBooking) {
		return domain.ErrForbidden
	}
	if !requester.HasSubject() {
		return fmt.Errorf("%w: %w", domain.ErrForbidden, domain.ErrIdentityIncomplete)
	}
	if !b.IsOwnedBy(requester.SubjectID) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *BookingService) record(requester domain.Identity, b domain.Booking, to domain.BookingStatus, outcome string, err error) {
	if s.audit == nil {
		return
	}
	rec := ports.TransitionRecord{
		BookingID: b.ID,
		From:      b.Status,
		To:        to,
		Actor:     requester.Username,
		Role:      requester.Role,
		Outcome:   outcome,
		At:        s.now().UTC(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	s.audit.Record(rec)
}
