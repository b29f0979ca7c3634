// Package query holds the pure filtering and grouping used by booking lists.
// Nothing here performs I/O.
package query

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/grandstay/booking-console/internal/core/domain"
)

// VisibleTo returns the bookings the identity may see: everything for ADMIN,
// own bookings for CUSTOMER, nothing for any other role or an incomplete
// customer identity.
func VisibleTo(id domain.Identity, all []domain.Booking) []domain.Booking {
	switch id.Role {
	case domain.RoleAdmin:
		return all
	case domain.RoleCustomer:
		if !id.HasSubject() {
			return []domain.Booking{}
		}
		out := make([]domain.Booking, 0, len(all))
		for _, b := range all {
			if b.IsOwnedBy(id.SubjectID) {
				out = append(out, b)
			}
		}
		return out
	default:
		return []domain.Booking{}
	}
}

// Search keeps bookings whose customer name, hotel name or id contains term,
// case-insensitively. An empty term returns the input unchanged.
func Search(bookings []domain.Booking, term string) []domain.Booking {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return bookings
	}
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if strings.Contains(haystack(b), term) {
			out = append(out, b)
		}
	}
	return out
}

func haystack(b domain.Booking) string {
	return strings.ToLower(b.CustomerName + " " + b.HotelName + " " + strconv.FormatInt(b.ID, 10))
}

// Partitioned splits bookings into stays still ahead and everything else.
type Partitioned struct {
	Upcoming []domain.Booking `json:"upcoming"`
	History  []domain.Booking `json:"history"`
}

// Partition puts PENDING or CONFIRMED bookings checking in on or after asOf
// into Upcoming and every other booking into History. Input order is kept.
func Partition(bookings []domain.Booking, asOf domain.Date) Partitioned {
	p := Partitioned{
		Upcoming: make([]domain.Booking, 0),
		History:  make([]domain.Booking, 0),
	}
	for _, b := range bookings {
		if b.Status.IsActive() && !b.CheckInDate.Before(asOf) {
			p.Upcoming = append(p.Upcoming, b)
			continue
		}
		p.History = append(p.History, b)
	}
	return p
}

// Stats summarises a booking list for the dashboard.
type Stats struct {
	Total    int                          `json:"total"`
	Upcoming int                          `json:"upcoming"`
	ByStatus map[domain.BookingStatus]int `json:"byStatus"`
	Revenue  decimal.Decimal              `json:"revenue"`
}

func earnsRevenue(s domain.BookingStatus) bool {
	switch s {
	case domain.StatusConfirmed, domain.StatusCheckedIn, domain.StatusCompleted:
		return true
	}
	return false
}

// Summarize counts bookings per status and the upcoming stays as of asOf.
// Revenue sums the totals of bookings that were confirmed, checked in or
// completed.
func Summarize(bookings []domain.Booking, asOf domain.Date) Stats {
	s := Stats{
		ByStatus: make(map[domain.BookingStatus]int, len(domain.Statuses())),
		Revenue:  decimal.Zero,
	}
	for _, st := range domain.Statuses() {
		s.ByStatus[st] = 0
	}
	s.Upcoming = len(Partition(bookings, asOf).Upcoming)
	for _, b := range bookings {
		s.Total++
		s.ByStatus[b.Status]++
		if earnsRevenue(b.Status) {
			s.Revenue = s.Revenue.Add(b.TotalAmount)
		}
	}
	return s
}
