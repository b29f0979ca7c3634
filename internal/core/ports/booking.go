package ports

import (
	"context"
	"time"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/query"
)

// BookingFilter scopes a remote booking listing.
// CustomerID == 0 means no filter (admin).
type BookingFilter struct {
	CustomerID int64
}

// BookingGateway is the booking surface of the remote booking service.
type BookingGateway interface {
	Get(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	// Create sends a priced booking. idempotencyKey lets the service collapse
	// retried submissions into one reservation.
	Create(ctx context.Context, b domain.Booking, idempotencyKey string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
}

// RoomCatalog resolves rooms for validation and pricing.
type RoomCatalog interface {
	Room(ctx context.Context, id int64) (*domain.Room, error)
}

// CustomerGateway updates customer records.
type CustomerGateway interface {
	UpdateCustomer(ctx context.Context, id int64, p domain.Profile) (*domain.Customer, error)
}

// TransitionRecord is one audited status change.
type TransitionRecord struct {
	BookingID int64
	From      domain.BookingStatus
	To        domain.BookingStatus
	Actor     string
	Role      domain.Role
	Outcome   string
	Error     string
	At        time.Time
}

// Transition outcomes.
const (
	OutcomeApplied    = "applied"
	OutcomeRolledBack = "rolled_back"
	OutcomeDiscarded  = "discarded"
)

// TransitionRecorder accepts audit records. Implementations must not block
// the caller on slow storage.
type TransitionRecorder interface {
	Record(rec TransitionRecord)
}

// AuditRepository persists audit records.
type AuditRepository interface {
	InsertTransition(ctx context.Context, rec TransitionRecord) error
}

// BookingService defines use-case operations for the booking lifecycle.
type BookingService interface {
	Create(ctx context.Context, requester domain.Identity, draft domain.BookingDraft) (*domain.Booking, error)
	Get(ctx context.Context, requester domain.Identity, bookingID int64) (*domain.Booking, error)
	Transition(ctx context.Context, bookingID int64, target domain.BookingStatus, requester domain.Identity) (*domain.Booking, error)
}

// BookingQueryService lists bookings scoped to the requester.
type BookingQueryService interface {
	List(ctx context.Context, requester domain.Identity) ([]domain.Booking, error)
	Stats(ctx context.Context, requester domain.Identity) (*query.Stats, error)
}

// ProfileService updates customer profiles.
type ProfileService interface {
	Update(ctx context.Context, requester domain.Identity, customerID int64, p domain.Profile) (*domain.Customer, error)
}
