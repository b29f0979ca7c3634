package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/ports"
)

var errUserNotFound = errors.New("user not found")

// Login posts credentials to /auth/login.
func (c *Client) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Username: username, Password: password},
	}, &resp)
	if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrForbidden) {
		return nil, fmt.Errorf("login %s: %w", username, domain.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login %s: %s: %w", username, resp.Message, domain.ErrInvalidCredentials)
	}

	return &ports.LoginResult{
		Token:     resp.Token,
		Username:  resp.Username,
		Role:      domain.ParseRole(resp.Role),
		SubjectID: subject(resp.SubjectID, resp.UserID),
	}, nil
}

// Validate posts token to /auth/validate.
func (c *Client) Validate(ctx context.Context, token string) (*domain.Identity, error) {
	var resp validateResponse
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/auth/validate",
		headers: map[string]string{"Authorization": "Bearer " + token},
	}, &resp)
	if errors.Is(err, domain.ErrForbidden) {
		return nil, fmt.Errorf("validate token: %w", domain.ErrTokenInvalid)
	}
	if err != nil {
		return nil, err
	}
	if !resp.Valid || resp.Username == "" {
		return nil, fmt.Errorf("validate token: %w", domain.ErrTokenInvalid)
	}

	return &domain.Identity{
		SubjectID: subject(resp.SubjectID, resp.UserID),
		Username:  resp.Username,
		Role:      domain.ParseRole(resp.Role),
	}, nil
}

// UserByUsername loads account details from /users/by-username/{username}.
func (c *Client) UserByUsername(ctx context.Context, username string) (*domain.UserDetails, error) {
	var u domain.UserDetails
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/users/by-username/" + url.PathEscape(username),
		auth:     true,
		notFound: errUserNotFound,
	}, &u)
	if err != nil {
		return nil, err
	}
	if u.ID <= 0 {
		return nil, fmt.Errorf("user %s: response has no id: %w", username, domain.ErrServer)
	}
	return &u, nil
}
