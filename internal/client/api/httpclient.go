package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vaultpass/internal/client/models"
	"vaultpass/internal/client/tokenstore"
	"vaultpass/internal/common"
	"vaultpass/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds every request, refresh calls included.
const DefaultTimeout = 30 * time.Second

// HTTPClient is the concrete gateway. All requests share one http.Client
// whose Timeout is the per-request ceiling.
//
// Authenticated calls follow the refresh protocol: on a 401 that has not yet
// been retried, the gateway refreshes the token (coalescing concurrent
// refreshes into a single flight), rewrites the Authorization header, and
// re-issues the original request exactly once. If the refresh itself fails,
// the token store is wiped and the injected SessionInvalidator is notified.
//
// Public endpoints (login, register, verification, password recovery) carry
// no token and are exempt from the protocol entirely.
type HTTPClient struct {
	baseURL     string
	http        *http.Client
	tokens      tokenstore.Store
	invalidator SessionInvalidator
	refresh     singleflight.Group
	log         logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens tokenstore.Store, log logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
}

var _ Client = (*HTTPClient)(nil)

// SetSessionInvalidator injects the sign-out notifier. Called once at
// startup, after the session layer is constructed.
func (c *HTTPClient) SetSessionInvalidator(inv SessionInvalidator) {
	c.invalidator = inv
}

// call describes one request to the backend. authed selects whether a bearer
// token is attached and the refresh protocol applies.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	authed bool
}

// do runs the call and decodes a 2xx JSON body into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, cl call, out any) error {
	return c.doWithRetry(ctx, cl, out, false)
}

// doWithRetry is the refresh-on-401 protocol. The retried argument is the
// explicit retry marker: a request is re-issued at most once, and a 401 on
// the retried request is terminal.
func (c *HTTPClient) doWithRetry(ctx context.Context, cl call, out any, retried bool) error {
	token := ""
	if cl.authed {
		token = c.tokens.Token(ctx)
	}

	status, body, err := c.send(ctx, cl, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && cl.authed && !retried {
		// nothing to refresh without a stored token
		if token == "" {
			return newError(status, body)
		}

		if _, err := c.refreshToken(ctx, token); err != nil {
			c.log.Warn(ctx, "token refresh failed, invalidating session", "error", err)
			if clearErr := c.tokens.Clear(ctx); clearErr != nil {
				c.log.Error(ctx, "failed to clear token store", "error", clearErr)
			}
			if c.invalidator != nil {
				c.invalidator.SessionInvalidated(ctx)
			}
			return err
		}

		// doWithRetry re-reads the store, which now holds the new token.
		return c.doWithRetry(ctx, cl, out, true)
	}

	if status >= 400 {
		return newError(status, body)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// refreshToken calls the refresh endpoint, presenting the current token as
// authority for renewal, and persists the replacement. Concurrent callers
// are coalesced into a single refresh.
func (c *HTTPClient) refreshToken(ctx context.Context, current string) (string, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		status, body, err := c.send(ctx, call{method: http.MethodPost, path: "/auth/refresh"}, current)
		if err != nil {
			return nil, err
		}
		if status >= 400 {
			return nil, newError(status, body)
		}

		var tr models.TokenResponse
		if err := json.Unmarshal(body, &tr); err != nil {
			return nil, fmt.Errorf("failed to decode refresh response: %w", err)
		}
		if tr.AccessToken == "" {
			return nil, fmt.Errorf("refresh returned an empty token")
		}

		// the persisted token must be visible to the retried request
		if err := c.tokens.SaveToken(ctx, tr.AccessToken); err != nil {
			return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
		}

		c.log.Debug(ctx, "access token refreshed")
		return tr.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// send issues a single HTTP request and returns the status and body.
// A transport failure (no response at all) wraps ErrUnavailable.
func (c *HTTPClient) send(ctx context.Context, cl call, token string) (int, []byte, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var reqBody io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.RequestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", cl.method, "path", cl.path, "error", err)
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request completed", "method", cl.method, "path", cl.path, "status", resp.StatusCode)
	return resp.StatusCode, body, nil
}

func pageQuery(page, pageSize int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
	return v
}

// ---- auth endpoints ----

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	var out models.TokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	if username != "" {
		body["username"] = username
	}
	var out models.User
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*models.Message, error) {
	q := url.Values{}
	q.Set("token", token)
	var out models.Message
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/verify-email", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) (*models.Message, error) {
	var out models.Message
	body := map[string]string{"email": email}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/resend-verification", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (*models.Message, error) {
	var out models.Message
	body := map[string]string{"email": email}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/forgot-password", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) (*models.Message, error) {
	var out models.Message
	body := map[string]string{"token": token, "new_password": newPassword}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/reset-password", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- entry endpoints ----

func (c *HTTPClient) ListEntries(ctx context.Context, page, pageSize int) (*models.EntryPage, error) {
	var out models.EntryPage
	if err := c.do(ctx, call{method: http.MethodGet, path: "/entries", query: pageQuery(page, pageSize), authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetEntry(ctx context.Context, entryID string) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, call{method: http.MethodGet, path: "/entries/" + entryID, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, call{method: http.MethodPost, path: "/entries", body: in, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, entryID string, in models.EntryUpdate) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, call{method: http.MethodPut, path: "/entries/" + entryID, body: in, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, entryID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/entries/" + entryID, authed: true}, nil)
}

func (c *HTTPClient) RevealEntry(ctx context.Context, entryID string) (*models.EntryReveal, error) {
	var out models.EntryReveal
	if err := c.do(ctx, call{method: http.MethodGet, path: "/entries/" + entryID + "/reveal", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) searchEntries(ctx context.Context, path, query string, page, pageSize int) (*models.EntryPage, error) {
	q := pageQuery(page, pageSize)
	q.Set("q", query)
	var out models.EntryPage
	if err := c.do(ctx, call{method: http.MethodGet, path: path, query: q, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SearchByWebsite(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	return c.searchEntries(ctx, "/search/website", query, page, pageSize)
}

func (c *HTTPClient) SearchByEmail(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	return c.searchEntries(ctx, "/search/email", query, page, pageSize)
}

func (c *HTTPClient) GeneratePassword(ctx context.Context, opts models.GeneratorOptions) (*models.GeneratedPassword, error) {
	var out models.GeneratedPassword
	if err := c.do(ctx, call{method: http.MethodPost, path: "/generate-password", query: opts.QueryValues(), authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
