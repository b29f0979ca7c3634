package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/grandstay/booking-console/internal/core/domain"
)

func queryFixture() *stubBookingGateway {
	return newStubBookingGateway(
		booking(1, 7, domain.StatusConfirmed, today.AddDays(3)),
		booking(2, 8, domain.StatusPending, today.AddDays(4)),
		booking(3, 7, domain.StatusCancelled, today.AddDays(5)),
	)
}

func TestBookingQueryService_List_AdminSeesAll(t *testing.T) {
	g := queryFixture()
	svc := NewBookingQueryService(g, nil, discardLogger)

	got, err := svc.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(got))
	}
	if g.lastFilter.CustomerID != 0 {
		t.Fatalf("admin list must not be filtered, got customer %d", g.lastFilter.CustomerID)
	}
}

func TestBookingQueryService_List_CustomerScoped(t *testing.T) {
	g := queryFixture()
	svc := NewBookingQueryService(g, nil, discardLogger)

	got, err := svc.List(context.Background(), customer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.lastFilter.CustomerID != 7 {
		t.Fatalf("expected server filter customer 7, got %d", g.lastFilter.CustomerID)
	}
	for _, b := range got {
		if b.CustomerID != 7 {
			t.Fatalf("customer saw booking %d of customer %d", b.ID, b.CustomerID)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(got))
	}
}

func TestBookingQueryService_List_IncompleteIdentity(t *testing.T) {
	svc := NewBookingQueryService(queryFixture(), nil, discardLogger)

	_, err := svc.List(context.Background(), domain.Identity{Role: domain.RoleCustomer})
	if !errors.Is(err, domain.ErrIdentityIncomplete) {
		t.Fatalf("expected ErrIdentityIncomplete, got %v", err)
	}
}

func TestBookingQueryService_List_UnknownRole(t *testing.T) {
	svc := NewBookingQueryService(queryFixture(), nil, discardLogger)

	_, err := svc.List(context.Background(), domain.Identity{SubjectID: 7, Role: domain.Role("MANAGER")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBookingQueryService_Stats(t *testing.T) {
	svc := NewBookingQueryService(queryFixture(), nil, discardLogger)

	stats, err := svc.Stats(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 3 || stats.ByStatus[domain.StatusCancelled] != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if !stats.Revenue.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected revenue 200 from the confirmed booking only, got %s", stats.Revenue)
	}

	if _, err := svc.Stats(context.Background(), customer); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("customers cannot view the dashboard, got %v", err)
	}
}

func TestBookingQueryService_List_ShowsInFlightTransition(t *testing.T) {
	g := queryFixture()
	bookings := newTestBookingService(g, nil)
	svc := NewBookingQueryService(g, bookings.Overlay, discardLogger)

	statusOf := func(id int64) domain.BookingStatus {
		t.Helper()
		got, err := svc.List(context.Background(), admin)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, b := range got {
			if b.ID == id {
				return b.Status
			}
		}
		t.Fatalf("booking %d missing from list", id)
		return ""
	}

	g.updateErr = domain.ErrServer
	var inFlight domain.BookingStatus
	g.onUpdate = func() { inFlight = statusOf(2) }

	if _, err := bookings.Transition(context.Background(), 2, domain.StatusConfirmed, admin); !errors.Is(err, domain.ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if inFlight != domain.StatusConfirmed {
		t.Fatalf("expected optimistic CONFIRMED while in flight, got %s", inFlight)
	}
	if got := statusOf(2); got != domain.StatusPending {
		t.Fatalf("expected PENDING after rollback, got %s", got)
	}
}
