package domain

import (
	"errors"
	"sort"
	"strings"
)

// Auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIdentityIncomplete = errors.New("identity incomplete: subject id unavailable")
	ErrTokenInvalid       = errors.New("session token invalid")
	ErrNoSession          = errors.New("no active session")
)

// Transition errors.
var (
	ErrIllegalTransition        = errors.New("illegal status transition")
	ErrForbidden                = errors.New("access forbidden")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
)

// Lookup and collaborator errors.
var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNetwork          = errors.New("booking service unreachable")
	ErrServer           = errors.New("booking service error")
)

// ErrValidation is matched by every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError carries one message per offending field so forms can
// attribute each failure to the right input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// Has reports whether field has a recorded failure.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IsConnectivity reports whether err means the booking service could not be
// used at all, as opposed to rejecting the request.
func IsConnectivity(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}
