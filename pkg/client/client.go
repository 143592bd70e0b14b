package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CookieName is the cookie the backend uses for the session credential.
const CookieName = "token"

// CredentialSource supplies the credential attached to every request.
// The session store is the only implementation outside tests.
type CredentialSource interface {
	Token() string
}

// UnauthorizedHandler observes every 401 response the client receives.
type UnauthorizedHandler func(err *HTTPError)

// Client is the hostel API client. All outbound calls go through Send so the
// credential is attached and 401s are reported in exactly one place.
type Client struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
	log        zerolog.Logger

	mu             sync.RWMutex
	onUnauthorized UnauthorizedHandler
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "client").Logger() }
}

// New creates a new API client. creds may be nil for anonymous use.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the fixed API base address.
func (c *Client) BaseURL() string { return c.baseURL }

// OnUnauthorized registers the global 401 observer. It may be registered once;
// later registrations fail with ErrHandlerRegistered.
func (c *Client) OnUnauthorized(fn UnauthorizedHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.onUnauthorized != nil {
		return ErrHandlerRegistered
	}
	c.onUnauthorized = fn
	return nil
}

// Send issues method path with an optional JSON body and decodes a JSON
// response into out when out is non-nil. Non-2xx responses come back as
// *HTTPError; a 401 is additionally reported to the registered observer before
// Send returns.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	_, err := c.do(ctx, method, path, body, out)
	return err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.Send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.Send(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.Send(ctx, http.MethodPut, path, body, out)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.Send(ctx, http.MethodDelete, path, nil, nil)
}

// do performs the request and hands back the response headers for callers that
// need cookies (login).
func (c *Client) do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if tok := c.creds.Token(); tok != "" {
			req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request")

	if resp.StatusCode >= 400 {
		httpErr := readHTTPError(resp)
		if resp.StatusCode == http.StatusUnauthorized {
			c.reportUnauthorized(httpErr)
		}
		return resp.Header, httpErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return resp.Header, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}

func (c *Client) reportUnauthorized(err *HTTPError) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

func readHTTPError(resp *http.Response) *HTTPError {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
		return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error, Code: apiErr.Code}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
}
