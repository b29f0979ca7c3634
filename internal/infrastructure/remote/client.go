// Package remote is the HTTP client for the booking service REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/grandstay/booking-console/internal/core/domain"
)

// TokenSource supplies the bearer token attached to authenticated calls.
type TokenSource interface {
	Token() string
}

// Config configures the booking service client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second; <= 0 disables throttling
	Burst     int
	Client    *http.Client
}

// Client talks to the booking service.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
	log     zerolog.Logger
}

// NewClient builds a Client. tokens may be nil until a session exists; see
// SetTokenSource.
func NewClient(cfg Config, tokens TokenSource, log zerolog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("booking service base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL: base,
		http:    hc,
		limiter: limiter,
		tokens:  tokens,
		log:     log,
	}, nil
}

// SetTokenSource replaces the bearer token source.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// Ping checks that the booking service answers at all. Any HTTP response,
// including 401 or 404, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bookings", nil)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping booking service: %w", domain.ErrNetwork)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("ping booking service: status %d: %w", resp.StatusCode, domain.ErrServer)
	}
	return nil
}

// request describes one call. notFound is returned for 404 responses.
type request struct {
	method   string
	path     string
	body     any
	headers  map[string]string
	auth     bool
	notFound error
}

// do sends r and decodes a successful JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", r.method, r.path, ctxErr)
		}
		c.log.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("booking service unreachable")
		return fmt.Errorf("%s %s: %w: %v", r.method, r.path, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("booking service call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(r, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %v", r.method, r.path, domain.ErrServer, err)
	}
	return nil
}

// errorBody is the error envelope the booking service uses.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func (c *Client) statusError(r request, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusBadRequest && len(eb.Errors) > 0:
		verr := domain.NewValidationError()
		for field, m := range eb.Errors {
			verr.Add(field, m)
		}
		return verr
	case resp.StatusCode == http.StatusUnauthorized:
		sentinel = domain.ErrTokenInvalid
	case resp.StatusCode == http.StatusForbidden:
		sentinel = domain.ErrForbidden
	case resp.StatusCode == http.StatusNotFound && r.notFound != nil:
		sentinel = r.notFound
	case resp.StatusCode == http.StatusConflict:
		sentinel = domain.ErrIllegalTransition
	default:
		sentinel = domain.ErrServer
	}

	c.log.Warn().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Str("message", msg).
		Msg("booking service rejected request")

	if msg != "" {
		return fmt.Errorf("%s %s: status %d: %s: %w", r.method, r.path, resp.StatusCode, msg, sentinel)
	}
	return fmt.Errorf("%s %s: status %d: %w", r.method, r.path, resp.StatusCode, sentinel)
}
