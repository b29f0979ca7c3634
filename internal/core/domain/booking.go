package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the lifecycle state of a reservation.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCheckedIn BookingStatus = "CHECKED_IN"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// validTransitions defines the allowed state machine transitions.
// COMPLETED and CANCELLED are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseBookingStatus converts a wire value into a BookingStatus.
// The legacy CHECKED_OUT value is read as COMPLETED.
func ParseBookingStatus(s string) (BookingStatus, error) {
	v := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if v == "CHECKED_OUT" {
		return StatusCompleted, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return v, nil
}

// IsValid reports whether s is one of the five defined statuses.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsActive reports whether the booking still counts toward upcoming stays.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Statuses lists every status in lifecycle order.
func Statuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled}
}

// Room is the read-only room record owned by the booking service.
type Room struct {
	ID            int64           `json:"id"`
	HotelID       int64           `json:"hotelId"`
	RoomNumber    string          `json:"roomNumber,omitempty"`
	RoomType      string          `json:"roomType,omitempty"`
	Capacity      int             `json:"capacity"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
}

// Booking is a single reservation.
type Booking struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customerId"`
	HotelID         int64           `json:"hotelId"`
	RoomID          *int64          `json:"roomId,omitempty"`
	CheckInDate     Date            `json:"checkInDate"`
	CheckOutDate    Date            `json:"checkOutDate"`
	GuestCount      int             `json:"guestCount"`
	SpecialRequests string          `json:"specialRequests,omitempty"`
	Status          BookingStatus   `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`

	CustomerName string `json:"customerName,omitempty"`
	HotelName    string `json:"hotelName,omitempty"`
}

// Nights returns the number of nights between check-in and check-out.
func (b Booking) Nights() int {
	return Nights(b.CheckInDate, b.CheckOutDate)
}

// IsOwnedBy reports whether the booking belongs to the given customer.
func (b Booking) IsOwnedBy(customerID int64) bool {
	return customerID > 0 && b.CustomerID == customerID
}

// CanCancel reports whether the booking is still inside its cancellation
// window: PENDING or CONFIRMED with check-in strictly after today.
func (b Booking) CanCancel(today Date) bool {
	return b.Status.CanTransitionTo(StatusCancelled) && b.CheckInDate.After(today)
}

// Nights returns ceil(checkOut - checkIn) in days.
func Nights(checkIn, checkOut Date) int {
	return checkIn.DaysUntil(checkOut)
}

// PriceFor returns nights * pricePerNight. Non-positive stays price at zero.
func PriceFor(checkIn, checkOut Date, pricePerNight decimal.Decimal) decimal.Decimal {
	n := Nights(checkIn, checkOut)
	if n <= 0 {
		return decimal.Zero
	}
	return pricePerNight.Mul(decimal.NewFromInt(int64(n)))
}

// BookingDraft is a booking request before validation and pricing.
type BookingDraft struct {
	CustomerID      int64  `json:"customerId"      validate:"required,gt=0"`
	HotelID         int64  `json:"hotelId"         validate:"required,gt=0"`
	RoomID          *int64 `json:"roomId"          validate:"omitempty,gt=0"`
	CheckInDate     Date   `json:"checkInDate"`
	CheckOutDate    Date   `json:"checkOutDate"`
	GuestCount      int    `json:"guestCount"      validate:"gte=1,lte=10"`
	SpecialRequests string `json:"specialRequests" validate:"max=500"`
}
