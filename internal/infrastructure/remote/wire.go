package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grandstay/booking-console/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	SubjectID int64  `json:"subjectId"`
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Message   string `json:"message"`
}

type validateResponse struct {
	Valid     bool   `json:"valid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	SubjectID int64  `json:"subjectId"`
	UserID    int64  `json:"userId"`
}

// subject prefers subjectId and falls back to the legacy userId.
func subject(subjectID, userID int64) int64 {
	if subjectID > 0 {
		return subjectID
	}
	return userID
}

// bookingDTO accepts both field spellings the service has used over time.
type bookingDTO struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customerId"`
	HotelID         int64           `json:"hotelId"`
	RoomID          *int64          `json:"roomId"`
	CheckInDate     domain.Date     `json:"checkInDate"`
	CheckOutDate    domain.Date     `json:"checkOutDate"`
	GuestCount      *int            `json:"guestCount"`
	Guests          *int            `json:"guests"`
	SpecialRequests string          `json:"specialRequests"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       *time.Time      `json:"createdAt"`
	CustomerName    string          `json:"customerName"`
	HotelName       string          `json:"hotelName"`

	Customer *struct {
		ID        int64  `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"customer"`
	Hotel *struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"hotel"`
}

// toDomain normalises a wire booking. An empty status reads as PENDING;
// an unknown status is an error so the caller can drop the record.
func (d bookingDTO) toDomain() (domain.Booking, error) {
	status := domain.StatusPending
	if d.Status != "" {
		s, err := domain.ParseBookingStatus(d.Status)
		if err != nil {
			return domain.Booking{}, err
		}
		status = s
	}

	b := domain.Booking{
		ID:              d.ID,
		CustomerID:      d.CustomerID,
		HotelID:         d.HotelID,
		RoomID:          d.RoomID,
		CheckInDate:     d.CheckInDate,
		CheckOutDate:    d.CheckOutDate,
		SpecialRequests: d.SpecialRequests,
		Status:          status,
		TotalAmount:     d.TotalAmount,
		CustomerName:    d.CustomerName,
		HotelName:       d.HotelName,
	}
	switch {
	case d.GuestCount != nil:
		b.GuestCount = *d.GuestCount
	case d.Guests != nil:
		b.GuestCount = *d.Guests
	}
	if d.CreatedAt != nil {
		b.CreatedAt = *d.CreatedAt
	}
	if d.Customer != nil {
		if b.CustomerID == 0 {
			b.CustomerID = d.Customer.ID
		}
		if b.CustomerName == "" {
			b.CustomerName = d.Customer.FirstName + " " + d.Customer.LastName
		}
	}
	if d.Hotel != nil {
		if b.HotelID == 0 {
			b.HotelID = d.Hotel.ID
		}
		if b.HotelName == "" {
			b.HotelName = d.Hotel.Name
		}
	}
	return b, nil
}

type createBookingRequest struct {
	CustomerID      int64           `json:"customerId"`
	HotelID         int64           `json:"hotelId"`
	RoomID          *int64          `json:"roomId,omitempty"`
	CheckInDate     domain.Date     `json:"checkInDate"`
	CheckOutDate    domain.Date     `json:"checkOutDate"`
	GuestCount      int             `json:"guestCount"`
	SpecialRequests string          `json:"specialRequests,omitempty"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// bookingList decodes either a bare array or a {"bookings": [...]} envelope.
type bookingList []bookingDTO

func (l *bookingList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []bookingDTO
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var env struct {
		Bookings []bookingDTO `json:"bookings"`
		Content  []bookingDTO `json:"content"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("booking list: %w", err)
	}
	if env.Bookings != nil {
		*l = env.Bookings
	} else {
		*l = env.Content
	}
	return nil
}

type roomDTO struct {
	ID            int64           `json:"id"`
	HotelID       int64           `json:"hotelId"`
	RoomNumber    string          `json:"roomNumber"`
	RoomType      string          `json:"roomType"`
	Capacity      int             `json:"capacity"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	Hotel         *struct {
		ID int64 `json:"id"`
	} `json:"hotel"`
}

func (r roomDTO) toDomain() domain.Room {
	room := domain.Room{
		ID:            r.ID,
		HotelID:       r.HotelID,
		RoomNumber:    r.RoomNumber,
		RoomType:      r.RoomType,
		Capacity:      r.Capacity,
		PricePerNight: r.PricePerNight,
	}
	if room.HotelID == 0 && r.Hotel != nil {
		room.HotelID = r.Hotel.ID
	}
	return room
}
