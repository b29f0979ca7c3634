package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Auth and token stubs
// ---------------------------------------------------------------------------

type stubAuth struct {
	mu            sync.Mutex
	loginResult   *ports.LoginResult
	loginErr      error
	validateID    *domain.Identity
	validateErr   error
	validateCalls int
	validateGate  chan struct{} // when set, Validate blocks until closed
	user          *domain.UserDetails
	userErr       error
}

func (a *stubAuth) Login(_ context.Context, _, _ string) (*ports.LoginResult, error) {
	if a.loginErr != nil {
		return nil, a.loginErr
	}
	res := *a.loginResult
	return &res, nil
}

func (a *stubAuth) Validate(_ context.Context, _ string) (*domain.Identity, error) {
	a.mu.Lock()
	a.validateCalls++
	gate := a.validateGate
	a.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if a.validateErr != nil {
		return nil, a.validateErr
	}
	id := *a.validateID
	return &id, nil
}

func (a *stubAuth) UserByUsername(_ context.Context, _ string) (*domain.UserDetails, error) {
	if a.userErr != nil {
		return nil, a.userErr
	}
	u := *a.user
	return &u, nil
}

func (a *stubAuth) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.validateCalls
}

type memTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *memTokenStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// ---------------------------------------------------------------------------
// Booking gateway stub
// ---------------------------------------------------------------------------

type stubBookingGateway struct {
	mu            sync.Mutex
	bookings      map[int64]domain.Booking
	nextID        int64
	createErr     error
	updateErr     error
	lastKey       string
	lastFilter    ports.BookingFilter
	created       []domain.Booking
	totalOverride *decimal.Decimal
	// onUpdate runs inside UpdateStatus before it answers.
	onUpdate func()
}

func newStubBookingGateway(bs ...domain.Booking) *stubBookingGateway {
	g := &stubBookingGateway{bookings: make(map[int64]domain.Booking), nextID: 100}
	for _, b := range bs {
		g.bookings[b.ID] = b
	}
	return g
}

func (g *stubBookingGateway) Get(_ context.Context, id int64) (*domain.Booking, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (g *stubBookingGateway) List(_ context.Context, f ports.BookingFilter) ([]domain.Booking, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastFilter = f
	out := make([]domain.Booking, 0, len(g.bookings))
	for id := int64(0); id <= g.nextID; id++ {
		b, ok := g.bookings[id]
		if !ok {
			continue
		}
		if f.CustomerID != 0 && b.CustomerID != f.CustomerID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (g *stubBookingGateway) Create(_ context.Context, b domain.Booking, key string) (*domain.Booking, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastKey = key
	g.nextID++
	b.ID = g.nextID
	g.created = append(g.created, b)
	g.bookings[b.ID] = b
	out := b
	if g.totalOverride != nil {
		out.TotalAmount = *g.totalOverride
	}
	return &out, nil
}

func (g *stubBookingGateway) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if g.onUpdate != nil {
		g.onUpdate()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	b, ok := g.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	b.Status = status
	g.bookings[id] = b
	return &b, nil
}

type stubRooms map[int64]domain.Room

func (r stubRooms) Room(_ context.Context, id int64) (*domain.Room, error) {
	room, ok := r[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return &room, nil
}

type recordingAudit struct {
	mu   sync.Mutex
	recs []ports.TransitionRecord
}

func (a *recordingAudit) Record(rec ports.TransitionRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recs = append(a.recs, rec)
}

func (a *recordingAudit) last() ports.TransitionRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recs[len(a.recs)-1]
}
