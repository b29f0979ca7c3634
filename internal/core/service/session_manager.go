package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
)

// validateTimeout bounds one shared validation round trip.
const validateTimeout = 15 * time.Second

// SessionManager owns the console's single session: the bearer token, the
// identity it proves, and the persisted copy of the token.
type SessionManager struct {
	auth  ports.RemoteAuth
	store ports.TokenStore
	log   zerolog.Logger
	now   func() time.Time

	validateGroup singleflight.Group

	mu       sync.RWMutex
	token    string
	identity *domain.Identity
	// epoch changes on every login and logout. Work started under an older
	// epoch must not write its result back.
	epoch uint64
}

// NewSessionManager returns a SessionManager with no active session.
func NewSessionManager(auth ports.RemoteAuth, store ports.TokenStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		auth:  auth,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// Login authenticates against the booking service and stores the session.
// A failed identity lookup leaves the session usable with SubjectID == 0.
func (m *SessionManager) Login(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	res, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	if res == nil || res.Token == "" {
		return domain.Session{}, fmt.Errorf("login: empty token in response: %w", domain.ErrServer)
	}

	id := &domain.Identity{
		SubjectID: res.SubjectID,
		Username:  username,
		Role:      res.Role,
	}
	if res.Username != "" {
		id.Username = res.Username
	}

	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.token = res.Token
	m.identity = id
	m.mu.Unlock()

	if err := m.store.Save(ctx, res.Token); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist session token")
	}

	m.completeIdentity(ctx, epoch, *id)

	m.log.Info().Str("username", id.Username).Str("role", string(id.Role)).Msg("logged in")
	return m.Session(), nil
}

// completeIdentity looks up the account behind the session and fills in the
// subject id and display fields. Lookup failures are logged and tolerated.
func (m *SessionManager) completeIdentity(ctx context.Context, epoch uint64, id domain.Identity) {
	details, err := m.auth.UserByUsername(ctx, id.Username)
	if err != nil {
		m.log.Warn().Err(err).Str("username", id.Username).Msg("identity lookup failed, subject id unavailable")
		return
	}

	if !id.HasSubject() {
		id.SubjectID = details.ID
	}
	id.DisplayName = details.DisplayName(id.Username)
	id.Email = details.Email

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		m.log.Debug().Str("username", id.Username).Msg("discarding identity lookup for a replaced session")
		return
	}
	m.identity = &id
}

// Validate confirms the current or persisted token with the booking service.
// A rejected token or a failed round trip clears the session and the
// persisted token. Concurrent calls share one round trip, which runs detached
// from any single caller: a caller that gives up gets its context error and
// leaves the session untouched.
func (m *SessionManager) Validate(ctx context.Context) (domain.Identity, error) {
	ch := m.validateGroup.DoChan("validate", func() (any, error) {
		vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), validateTimeout)
		defer cancel()
		return m.validate(vctx)
	})

	select {
	case <-ctx.Done():
		return domain.Identity{}, fmt.Errorf("validate: %w", ctx.Err())
	case res := <-ch:
		if res.Shared {
			m.log.Debug().Msg("validate coalesced with in-flight call")
		}
		if res.Err != nil {
			return domain.Identity{}, res.Err
		}
		return res.Val.(domain.Identity), nil
	}
}

func (m *SessionManager) validate(ctx context.Context) (domain.Identity, error) {
	m.mu.RLock()
	token, epoch := m.token, m.epoch
	m.mu.RUnlock()

	if token == "" {
		stored, err := m.store.Load(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("failed to load persisted token")
		}
		token = stored
	}
	if token == "" {
		return domain.Identity{}, domain.ErrNoSession
	}

	if tokenExpired(token, m.now()) {
		m.clear(ctx, epoch)
		return domain.Identity{}, fmt.Errorf("validate: token expired: %w", domain.ErrTokenInvalid)
	}

	id, err := m.auth.Validate(ctx, token)
	if err != nil {
		if abandoned(ctx, err) {
			m.log.Warn().Err(err).Msg("validation did not complete, keeping session")
			return domain.Identity{}, fmt.Errorf("validate: %w", err)
		}
		m.clear(ctx, epoch)
		return domain.Identity{}, fmt.Errorf("validate: %w", err)
	}
	if id == nil || id.Username == "" {
		m.clear(ctx, epoch)
		return domain.Identity{}, fmt.Errorf("validate: response carried no identity: %w", domain.ErrTokenInvalid)
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return domain.Identity{}, fmt.Errorf("validate: session replaced during validation: %w", domain.ErrNoSession)
	}
	if prev := m.identity; prev != nil && prev.Username == id.Username {
		if !id.HasSubject() {
			id.SubjectID = prev.SubjectID
		}
		if id.DisplayName == "" {
			id.DisplayName = prev.DisplayName
		}
		if id.Email == "" {
			id.Email = prev.Email
		}
	}
	m.token = token
	m.identity = id
	resolved := *id
	m.mu.Unlock()

	if !resolved.HasSubject() || resolved.DisplayName == "" {
		m.completeIdentity(ctx, epoch, resolved)
	}

	current, _ := m.Identity()
	return current, nil
}

// abandoned reports whether err means no answer was received because the
// request context ended.
func abandoned(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// clear drops the session if it still belongs to epoch. The persisted token
// is removed either way since it failed validation.
func (m *SessionManager) clear(ctx context.Context, epoch uint64) {
	m.mu.Lock()
	if m.epoch == epoch {
		m.epoch++
		m.token = ""
		m.identity = nil
	}
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear persisted token")
	}
}

// Logout ends the session. Calling it without a session is a no-op.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.epoch++
	hadSession := m.token != ""
	m.token = ""
	m.identity = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: clear persisted token: %w", err)
	}
	if hadSession {
		m.log.Info().Msg("logged out")
	}
	return nil
}

// Token returns the current bearer token or "".
func (m *SessionManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Identity returns a copy of the current identity.
func (m *SessionManager) Identity() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return domain.Identity{}, false
	}
	return *m.identity, true
}

// Session returns a snapshot of the session.
func (m *SessionManager) Session() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := domain.Session{Token: m.token}
	if m.identity != nil {
		id := *m.identity
		s.Identity = &id
	}
	return s
}

// RequireSubject returns the identity only when its subject id is known.
func (m *SessionManager) RequireSubject() (domain.Identity, error) {
	id, ok := m.Identity()
	if !ok {
		return domain.Identity{}, domain.ErrNoSession
	}
	if !id.HasSubject() {
		return id, domain.ErrIdentityIncomplete
	}
	return id, nil
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque tokens and tokens without exp are left to the server.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
