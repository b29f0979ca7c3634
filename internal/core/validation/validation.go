// Package validation is the single validator shared by booking creation and
// profile updates. Every check reports into a field-keyed ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/grandstay/booking-console/internal/core/domain"
)

// Validator wraps go-playground/validator and reports json field names.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator. It also satisfies echo.Validator.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate runs struct tags on i. It returns a *domain.ValidationError on
// tag failures so callers can attribute errors per field.
func (val *Validator) Validate(i any) error {
	verr := domain.NewValidationError()
	if err := val.collect(i, verr); err != nil {
		return err
	}
	return verr.OrNil()
}

func (val *Validator) collect(i any, verr *domain.ValidationError) error {
	err := val.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	for _, fe := range ve {
		verr.Add(fe.Field(), fieldError(fe))
	}
	return nil
}

// Booking checks a draft against every booking invariant. room may be nil
// for hotel-only bookings, in which case capacity is not checked.
func (val *Validator) Booking(d domain.BookingDraft, room *domain.Room, today domain.Date) error {
	verr := domain.NewValidationError()
	if err := val.collect(d, verr); err != nil {
		return err
	}

	switch {
	case d.CheckInDate.IsZero():
		verr.Add("checkInDate", "check-in date is required")
	case d.CheckInDate.Before(today):
		verr.Add("checkInDate", "check-in date cannot be in the past")
	}

	switch {
	case d.CheckOutDate.IsZero():
		verr.Add("checkOutDate", "check-out date is required")
	case !d.CheckInDate.IsZero() && !d.CheckOutDate.After(d.CheckInDate):
		verr.Add("checkOutDate", "check-out date must be after check-in date")
	}

	if room != nil {
		if room.HotelID != d.HotelID {
			verr.Add("roomId", "room does not belong to the selected hotel")
		}
		if d.GuestCount > room.Capacity {
			verr.Add("guestCount", fmt.Sprintf("room capacity is %d guests", room.Capacity))
		}
	}

	return verr.OrNil()
}

// Profile checks a customer profile update.
func (val *Validator) Profile(p domain.Profile) error {
	return val.Validate(p)
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return field + " must contain digits only"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
