package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandstay/booking-console/internal/api/handler"
	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/query"
)

type fakeSessions struct {
	identity *domain.Identity
}

func (f *fakeSessions) Login(ctx context.Context, username, password string) (domain.Session, error) {
	return domain.Session{}, domain.ErrInvalidCredentials
}

func (f *fakeSessions) Validate(ctx context.Context) (domain.Identity, error) {
	if f.identity == nil {
		return domain.Identity{}, domain.ErrNoSession
	}
	return *f.identity, nil
}

func (f *fakeSessions) Logout(ctx context.Context) error {
	f.identity = nil
	return nil
}

func (f *fakeSessions) Identity() (domain.Identity, bool) {
	if f.identity == nil {
		return domain.Identity{}, false
	}
	return *f.identity, true
}

func (f *fakeSessions) RequireSubject() (domain.Identity, error) {
	id, ok := f.Identity()
	if !ok {
		return domain.Identity{}, domain.ErrNoSession
	}
	return id, nil
}

type fakeBookings struct{}

func (fakeBookings) Create(ctx context.Context, requester domain.Identity, draft domain.BookingDraft) (*domain.Booking, error) {
	verr := domain.NewValidationError()
	verr.Add("checkOutDate", "must be after check-in date")
	return nil, verr
}

func (fakeBookings) Get(ctx context.Context, requester domain.Identity, id int64) (*domain.Booking, error) {
	return nil, domain.ErrBookingNotFound
}

func (fakeBookings) Transition(ctx context.Context, id int64, target domain.BookingStatus, requester domain.Identity) (*domain.Booking, error) {
	return nil, domain.ErrIllegalTransition
}

type fakeQueries struct{}

func (fakeQueries) List(ctx context.Context, requester domain.Identity) ([]domain.Booking, error) {
	return nil, nil
}

func (fakeQueries) Stats(ctx context.Context, requester domain.Identity) (*query.Stats, error) {
	return &query.Stats{ByStatus: map[domain.BookingStatus]int{}}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) Update(ctx context.Context, requester domain.Identity, customerID int64, p domain.Profile) (*domain.Customer, error) {
	return nil, domain.ErrForbidden
}

func TestRouter(t *testing.T) {
	sessions := &fakeSessions{}
	e := NewRouter(Dependencies{
		Sessions: sessions,
		Bookings: fakeBookings{},
		Queries:  fakeQueries{},
		Profiles: fakeProfiles{},
		Checks: map[string]handler.Checker{
			"booking_api": func(ctx context.Context) error { return errors.New("connection refused") },
		},
		Log: zerolog.Nop(),
	})

	admin := domain.Identity{SubjectID: 1, Username: "root", Role: domain.RoleAdmin}
	customer := domain.Identity{SubjectID: 7, Username: "alice", Role: domain.RoleCustomer}
	manager := domain.Identity{SubjectID: 9, Username: "mgr", Role: domain.Role("MANAGER")}

	tests := []struct {
		name     string
		identity *domain.Identity
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{name: "no session", method: http.MethodGet, path: "/v1/bookings", wantCode: http.StatusUnauthorized},
		{name: "customer lists own bookings", identity: &customer, method: http.MethodGet, path: "/v1/bookings", wantCode: http.StatusOK},
		{name: "customer denied dashboard", identity: &customer, method: http.MethodGet, path: "/v1/dashboard/stats", wantCode: http.StatusForbidden},
		{name: "admin dashboard", identity: &admin, method: http.MethodGet, path: "/v1/dashboard/stats", wantCode: http.StatusOK},
		{name: "unknown role denied", identity: &manager, method: http.MethodGet, path: "/v1/bookings", wantCode: http.StatusForbidden},
		{name: "validation errors carry fields", identity: &customer, method: http.MethodPost, path: "/v1/bookings", body: `{"hotelId":1}`,
			wantCode: http.StatusUnprocessableEntity, wantBody: `"checkOutDate"`},
		{name: "unknown booking", identity: &customer, method: http.MethodGet, path: "/v1/bookings/99", wantCode: http.StatusNotFound},
		{name: "illegal transition", identity: &admin, method: http.MethodPut, path: "/v1/bookings/3/status", body: `{"status":"CONFIRMED"}`,
			wantCode: http.StatusConflict},
		{name: "profile forbidden", identity: &customer, method: http.MethodPut, path: "/v1/customers/8", body: `{}`, wantCode: http.StatusForbidden},
		{name: "bad credentials", method: http.MethodPost, path: "/auth/login", body: `{"username":"a","password":"b"}`, wantCode: http.StatusUnauthorized},
		{name: "liveness", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "readiness degraded", method: http.MethodGet, path: "/health/ready", wantCode: http.StatusServiceUnavailable, wantBody: "booking_api"},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions.identity = tt.identity

			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
