package ports

import (
	"context"

	"github.com/grandstay/booking-console/internal/core/domain"
)

// LoginResult is what the booking service returns for a successful login.
// SubjectID is zero when the response did not carry one.
type LoginResult struct {
	Token     string
	Username  string
	Role      domain.Role
	SubjectID int64
}

// RemoteAuth is the authentication surface of the remote booking service.
type RemoteAuth interface {
	// Login returns domain.ErrInvalidCredentials when the service rejects the
	// credentials and domain.ErrNetwork when it cannot be reached.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Validate checks token and returns the identity it proves. Any rejection
	// is reported as domain.ErrTokenInvalid.
	Validate(ctx context.Context, token string) (*domain.Identity, error)
	UserByUsername(ctx context.Context, username string) (*domain.UserDetails, error)
}

// TokenStore persists the session token across console restarts.
// Load returns "" and no error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// SessionService is the session surface the console depends on.
type SessionService interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
	Validate(ctx context.Context) (domain.Identity, error)
	Logout(ctx context.Context) error
	Identity() (domain.Identity, bool)
	RequireSubject() (domain.Identity, error)
}
