package domain

import "strings"

// Role is the authorization role carried by an Identity.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole normalises the role strings the booking service emits.
// "USER" is a legacy spelling of CUSTOMER and a "ROLE_" prefix is ignored.
// Anything else (including "MANAGER") is returned as-is and denied by policy.
func ParseRole(s string) Role {
	r := strings.ToUpper(strings.TrimSpace(s))
	r = strings.TrimPrefix(r, "ROLE_")
	switch r {
	case "ADMIN":
		return RoleAdmin
	case "CUSTOMER", "USER":
		return RoleCustomer
	default:
		return Role(r)
	}
}

// Identity is the resolved caller behind a session token.
// SubjectID is zero when the identity lookup failed after login.
type Identity struct {
	SubjectID   int64  `json:"subjectId,omitempty"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// HasSubject reports whether the identity was fully resolved.
func (i Identity) HasSubject() bool { return i.SubjectID > 0 }

// IsAdmin reports whether the identity holds the ADMIN role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Session pairs the opaque token with the identity it proves.
type Session struct {
	Token    string    `json:"-"`
	Identity *Identity `json:"identity,omitempty"`
}

// Active reports whether the session holds both a token and an identity.
func (s Session) Active() bool { return s.Token != "" && s.Identity != nil }

// Profile is the editable part of a customer record.
type Profile struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"required,max=100"`
	Email     string `json:"email"     validate:"required,email"`
	Phone     string `json:"phone"     validate:"omitempty,len=10,numeric"`
	Address   string `json:"address,omitempty" validate:"max=255"`
}

// Customer is the customer record returned by the booking service.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// UserDetails is the account lookup used to complete an Identity.
type UserDetails struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// DisplayName joins first and last name, falling back to the username.
func (u UserDetails) DisplayName(username string) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return username
	}
	return name
}
