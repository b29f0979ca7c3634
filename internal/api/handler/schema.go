package handler

import (
	"github.com/grandstay/booking-console/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Identity domain.Identity `json:"identity"`
	// Complete is false when the account lookup failed after login; actions
	// that need the customer id will be refused until the next login.
	Complete bool `json:"complete"`
}

func newSessionResponse(id domain.Identity) sessionResponse {
	return sessionResponse{Identity: id, Complete: id.HasSubject()}
}

type createBookingRequest struct {
	CustomerID      int64       `json:"customerId"`
	HotelID         int64       `json:"hotelId"`
	RoomID          *int64      `json:"roomId"`
	CheckInDate     domain.Date `json:"checkInDate"`
	CheckOutDate    domain.Date `json:"checkOutDate"`
	GuestCount      int         `json:"guestCount"`
	SpecialRequests string      `json:"specialRequests"`
}

func (r createBookingRequest) toDraft() domain.BookingDraft {
	return domain.BookingDraft{
		CustomerID:      r.CustomerID,
		HotelID:         r.HotelID,
		RoomID:          r.RoomID,
		CheckInDate:     r.CheckInDate,
		CheckOutDate:    r.CheckOutDate,
		GuestCount:      r.GuestCount,
		SpecialRequests: r.SpecialRequests,
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// bookingView adds UI hints to a booking.
type bookingView struct {
	domain.Booking
	Nights    int  `json:"nights"`
	CanCancel bool `json:"canCancel"`
}

func newBookingView(b domain.Booking, today domain.Date) bookingView {
	return bookingView{Booking: b, Nights: b.Nights(), CanCancel: b.CanCancel(today)}
}

func newBookingViews(bs []domain.Booking, today domain.Date) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, newBookingView(b, today))
	}
	return out
}

type listBookingsResponse struct {
	View  string        `json:"view"`
	Items []bookingView `json:"items"`
	Count int           `json:"count"`
}

type updateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (r updateProfileRequest) toProfile() domain.Profile {
	return domain.Profile{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
	}
}
