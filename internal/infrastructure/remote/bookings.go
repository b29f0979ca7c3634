package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
)

// Get loads one booking.
func (c *Client) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	var dto bookingDTO
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/bookings/" + strconv.FormatInt(id, 10),
		auth:     true,
		notFound: domain.ErrBookingNotFound,
	}, &dto)
	if err != nil {
		return nil, err
	}
	return c.ingestOne(dto)
}

// List loads bookings, optionally scoped to one customer. Records with an
// unknown status are dropped.
func (c *Client) List(ctx context.Context, filter ports.BookingFilter) ([]domain.Booking, error) {
	path := "/bookings"
	if filter.CustomerID > 0 {
		q := url.Values{}
		q.Set("customerId", strconv.FormatInt(filter.CustomerID, 10))
		path += "?" + q.Encode()
	}

	var list bookingList
	if err := c.do(ctx, request{method: http.MethodGet, path: path, auth: true}, &list); err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(list))
	for _, dto := range list {
		b, err := dto.toDomain()
		if err != nil {
			c.log.Warn().Err(err).Int64("booking_id", dto.ID).Msg("skipping booking with unknown status")
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Create posts a priced booking. The idempotency key is sent as the
// Idempotency-Key header.
func (c *Client) Create(ctx context.Context, b domain.Booking, idempotencyKey string) (*domain.Booking, error) {
	body := createBookingRequest{
		CustomerID:      b.CustomerID,
		HotelID:         b.HotelID,
		RoomID:          b.RoomID,
		CheckInDate:     b.CheckInDate,
		CheckOutDate:    b.CheckOutDate,
		GuestCount:      b.GuestCount,
		SpecialRequests: b.SpecialRequests,
		Status:          string(domain.StatusPending),
		TotalAmount:     b.TotalAmount,
	}
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}

	var dto bookingDTO
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/bookings",
		body:    body,
		headers: headers,
		auth:    true,
	}, &dto)
	if err != nil {
		return nil, err
	}
	return c.ingestOne(dto)
}

// UpdateStatus sends PUT /bookings/{id}/status.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	var dto bookingDTO
	err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     "/bookings/" + strconv.FormatInt(id, 10) + "/status",
		body:     statusRequest{Status: string(status)},
		auth:     true,
		notFound: domain.ErrBookingNotFound,
	}, &dto)
	if err != nil {
		return nil, err
	}
	return c.ingestOne(dto)
}

func (c *Client) ingestOne(dto bookingDTO) (*domain.Booking, error) {
	b, err := dto.toDomain()
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w: %v", dto.ID, domain.ErrServer, err)
	}
	return &b, nil
}

// Room loads one room.
func (c *Client) Room(ctx context.Context, id int64) (*domain.Room, error) {
	var dto roomDTO
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/rooms/" + strconv.FormatInt(id, 10),
		auth:     true,
		notFound: domain.ErrRoomNotFound,
	}, &dto)
	if err != nil {
		return nil, err
	}
	room := dto.toDomain()
	return &room, nil
}

// UpdateCustomer sends PUT /customers/{id}.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, p domain.Profile) (*domain.Customer, error) {
	var cust domain.Customer
	err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     "/customers/" + strconv.FormatInt(id, 10),
		body:     p,
		auth:     true,
		notFound: domain.ErrCustomerNotFound,
	}, &cust)
	if err != nil {
		return nil, err
	}
	if cust.ID == 0 {
		cust.ID = id
	}
	return &cust, nil
}

var (
	_ ports.RemoteAuth      = (*Client)(nil)
	_ ports.BookingGateway  = (*Client)(nil)
	_ ports.RoomCatalog     = (*Client)(nil)
	_ ports.CustomerGateway = (*Client)(nil)
)
