// Package policy maps a role and a requested operation to an allow/deny
// decision. It has no state and performs no I/O.
package policy

import "github.com/grandstay/booking-console/internal/core/domain"

// Operation names a privileged action on bookings or managed resources.
type Operation string

const (
	ViewAllBookings  Operation = "VIEW_ALL_BOOKINGS"
	ViewOwnBookings  Operation = "VIEW_OWN_BOOKINGS"
	ManageBookings   Operation = "MANAGE_BOOKINGS"
	ManageHotels     Operation = "MANAGE_HOTELS"
	ManageRooms      Operation = "MANAGE_ROOMS"
	ManageCustomers  Operation = "MANAGE_CUSTOMERS"
	ViewDashboard    Operation = "VIEW_DASHBOARD"
	CreateBooking    Operation = "CREATE_BOOKING"
	CancelOwnBooking Operation = "CANCEL_OWN_BOOKING"
	ManageOwnProfile Operation = "MANAGE_OWN_PROFILE"
)

var customerOps = map[Operation]struct{}{
	CreateBooking:    {},
	ViewOwnBookings:  {},
	CancelOwnBooking: {},
	ManageOwnProfile: {},
}

var adminOps = map[Operation]struct{}{
	ViewAllBookings:  {},
	ViewOwnBookings:  {},
	ManageBookings:   {},
	ManageHotels:     {},
	ManageRooms:      {},
	ManageCustomers:  {},
	ViewDashboard:    {},
	CreateBooking:    {},
	CancelOwnBooking: {},
	ManageOwnProfile: {},
}

var table = map[domain.Role]map[Operation]struct{}{
	domain.RoleAdmin:    adminOps,
	domain.RoleCustomer: customerOps,
}

// CanAccess reports whether role may perform op. Unknown roles and unknown
// operations are denied.
func CanAccess(role domain.Role, op Operation) bool {
	ops, ok := table[role]
	if !ok {
		return false
	}
	_, ok = ops[op]
	return ok
}

// Operations returns every operation the policy knows about.
func Operations() []Operation {
	return []Operation{
		ViewAllBookings, ViewOwnBookings, ManageBookings, ManageHotels, ManageRooms,
		ManageCustomers, ViewDashboard, CreateBooking, CancelOwnBooking, ManageOwnProfile,
	}
}
