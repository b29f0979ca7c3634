package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
)

func newTestSessionManager(auth *stubAuth) (*SessionManager, *memTokenStore) {
	store := &memTokenStore{}
	return NewSessionManager(auth, store, discardLogger), store
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestSessionManager_Login_ResolvesIdentity(t *testing.T) {
	auth := &stubAuth{
		loginResult: &ports.LoginResult{Token: "tok-1", Username: "alice", Role: domain.RoleCustomer},
		user:        &domain.UserDetails{ID: 42, FirstName: "Alice", LastName: "Smith", Email: "alice@example.com"},
	}
	m, store := newTestSessionManager(auth)

	sess, err := m.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.Token != "tok-1" {
		t.Fatalf("expected token tok-1, got %q", sess.Token)
	}
	if sess.Identity == nil || sess.Identity.SubjectID != 42 {
		t.Fatalf("expected subject 42, got %+v", sess.Identity)
	}
	if sess.Identity.DisplayName != "Alice Smith" {
		t.Errorf("unexpected display name %q", sess.Identity.DisplayName)
	}
	if store.token != "tok-1" {
		t.Errorf("token not persisted, store has %q", store.token)
	}
	if m.Token() != "tok-1" {
		t.Errorf("Token() = %q", m.Token())
	}
	if _, err := m.RequireSubject(); err != nil {
		t.Errorf("RequireSubject returned %v", err)
	}
}

func TestSessionManager_Login_InvalidCredentials(t *testing.T) {
	auth := &stubAuth{loginErr: domain.ErrInvalidCredentials}
	m, store := newTestSessionManager(auth)

	_, err := m.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, ok := m.Identity(); ok {
		t.Fatalf("no identity expected after failed login")
	}
	if store.token != "" {
		t.Fatalf("nothing should be persisted, got %q", store.token)
	}
}

func TestSessionManager_Login_EmptyInput(t *testing.T) {
	m, _ := newTestSessionManager(&stubAuth{})

	if _, err := m.Login(context.Background(), "  ", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blank username, got %v", err)
	}
	if _, err := m.Login(context.Background(), "alice", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for blank password, got %v", err)
	}
}

func TestSessionManager_Login_NetworkError(t *testing.T) {
	auth := &stubAuth{loginErr: domain.ErrNetwork}
	m, _ := newTestSessionManager(auth)

	if _, err := m.Login(context.Background(), "alice", "pw"); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestSessionManager_Login_LookupFailureLeavesIdentityIncomplete(t *testing.T) {
	auth := &stubAuth{
		loginResult: &ports.LoginResult{Token: "tok-1", Username: "bob", Role: domain.RoleCustomer},
		userErr:     domain.ErrServer,
	}
	m, _ := newTestSessionManager(auth)

	sess, err := m.Login(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("login should succeed despite lookup failure: %v", err)
	}
	if sess.Identity.HasSubject() {
		t.Fatalf("expected no subject, got %d", sess.Identity.SubjectID)
	}
	if _, err := m.RequireSubject(); !errors.Is(err, domain.ErrIdentityIncomplete) {
		t.Fatalf("expected ErrIdentityIncomplete, got %v", err)
	}
}

func TestSessionManager_Login_KeepsSubjectFromLoginResponse(t *testing.T) {
	auth := &stubAuth{
		loginResult: &ports.LoginResult{Token: "tok-1", Username: "bob", Role: domain.RoleCustomer, SubjectID: 9},
		user:        &domain.UserDetails{ID: 1234},
	}
	m, _ := newTestSessionManager(auth)

	sess, err := m.Login(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if sess.Identity.SubjectID != 9 {
		t.Fatalf("expected subject 9 from login response, got %d", sess.Identity.SubjectID)
	}
	if sess.Identity.DisplayName != "bob" {
		t.Fatalf("expected username fallback for display name, got %q", sess.Identity.DisplayName)
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func TestSessionManager_Validate_RestoresPersistedToken(t *testing.T) {
	auth := &stubAuth{
		validateID: &domain.Identity{Username: "alice", Role: domain.RoleAdmin},
		user:       &domain.UserDetails{ID: 1, FirstName: "Alice"},
	}
	m, store := newTestSessionManager(auth)
	store.token = "persisted"

	id, err := m.Validate(context.Background())
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if id.Role != domain.RoleAdmin || id.SubjectID != 1 {
		t.Fatalf("unexpected identity %+v", id)
	}
	if m.Token() != "persisted" {
		t.Fatalf("expected persisted token to become active, got %q", m.Token())
	}
}

func TestSessionManager_Validate_NoToken(t *testing.T) {
	m, _ := newTestSessionManager(&stubAuth{})

	if _, err := m.Validate(context.Background()); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionManager_Validate_FailureClearsSession(t *testing.T) {
	for _, failure := range []error{domain.ErrTokenInvalid, domain.ErrNetwork} {
		auth := &stubAuth{validateErr: failure}
		m, store := newTestSessionManager(auth)
		store.token = "persisted"

		_, err := m.Validate(context.Background())
		if !errors.Is(err, failure) {
			t.Fatalf("expected %v, got %v", failure, err)
		}
		if m.Token() != "" || store.token != "" {
			t.Fatalf("session should be cleared after %v", failure)
		}
		if _, ok := m.Identity(); ok {
			t.Fatalf("identity should be cleared after %v", failure)
		}
	}
}

func TestSessionManager_Validate_AbandonedCallKeepsSession(t *testing.T) {
	for _, failure := range []error{context.Canceled, context.DeadlineExceeded} {
		auth := &stubAuth{validateErr: failure}
		m, store := newTestSessionManager(auth)
		store.token = "persisted"

		_, err := m.Validate(context.Background())
		if !errors.Is(err, failure) {
			t.Fatalf("expected %v, got %v", failure, err)
		}
		if tok, _ := store.Load(context.Background()); tok != "persisted" {
			t.Fatalf("persisted token must survive %v, got %q", failure, tok)
		}
	}
}

func TestSessionManager_Validate_CallerCancelDoesNotAffectSession(t *testing.T) {
	gate := make(chan struct{})
	auth := &stubAuth{
		validateID:   &domain.Identity{Username: "alice", Role: domain.RoleAdmin, SubjectID: 1},
		user:         &domain.UserDetails{ID: 1, FirstName: "Alice"},
		validateGate: gate,
	}
	m, store := newTestSessionManager(auth)
	store.token = "persisted"

	ctx, cancel := context.WithCancel(context.Background())
	waiting := make(chan error, 1)
	go func() {
		_, err := m.Validate(context.Background())
		waiting <- err
	}()
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := m.Validate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if tok, _ := store.Load(context.Background()); tok != "persisted" {
		t.Fatalf("caller cancel must not clear the persisted token, got %q", tok)
	}

	close(gate)
	if err := <-waiting; err != nil {
		t.Fatalf("other caller should still be validated, got %v", err)
	}
	if id, ok := m.Identity(); !ok || id.Username != "alice" {
		t.Fatalf("expected session for alice, got %+v (%v)", id, ok)
	}
}

func TestSessionManager_Validate_ExpiredJWTRejectedLocally(t *testing.T) {
	auth := &stubAuth{validateID: &domain.Identity{Username: "alice", Role: domain.RoleAdmin}}
	m, store := newTestSessionManager(auth)
	store.token = signedToken(t, time.Now().Add(-time.Hour))

	_, err := m.Validate(context.Background())
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if auth.calls() != 0 {
		t.Fatalf("expired token must not reach the server, got %d calls", auth.calls())
	}
	if store.token != "" {
		t.Fatalf("expired token should be cleared")
	}
}

func TestSessionManager_Validate_UnexpiredJWTGoesToServer(t *testing.T) {
	auth := &stubAuth{
		validateID: &domain.Identity{Username: "alice", Role: domain.RoleCustomer, SubjectID: 5},
		user:       &domain.UserDetails{ID: 5, FirstName: "Alice"},
	}
	m, store := newTestSessionManager(auth)
	store.token = signedToken(t, time.Now().Add(time.Hour))

	if _, err := m.Validate(context.Background()); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if auth.calls() != 1 {
		t.Fatalf("expected 1 server call, got %d", auth.calls())
	}
}

func TestSessionManager_Validate_CoalescesConcurrentCalls(t *testing.T) {
	gate := make(chan struct{})
	auth := &stubAuth{
		validateID:   &domain.Identity{Username: "alice", Role: domain.RoleAdmin, SubjectID: 1},
		user:         &domain.UserDetails{ID: 1, FirstName: "Alice"},
		validateGate: gate,
	}
	m, store := newTestSessionManager(auth)
	store.token = "persisted"

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			_, err := m.Validate(context.Background())
			errs <- err
		}()
	}
	started.Wait()
	// Give every goroutine a chance to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	done.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Validate returned error: %v", err)
		}
	}
	if auth.calls() != 1 {
		t.Fatalf("expected concurrent validations to share one call, got %d", auth.calls())
	}
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestSessionManager_Logout_Idempotent(t *testing.T) {
	auth := &stubAuth{
		loginResult: &ports.LoginResult{Token: "tok-1", Username: "alice", Role: domain.RoleAdmin},
		user:        &domain.UserDetails{ID: 1},
	}
	m, store := newTestSessionManager(auth)
	if _, err := m.Login(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := m.Logout(context.Background()); err != nil {
			t.Fatalf("Logout #%d returned error: %v", i+1, err)
		}
	}
	if m.Token() != "" || store.token != "" {
		t.Fatalf("token should be cleared")
	}
	if _, err := m.RequireSubject(); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}
