package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/netx"
)

// HTTPClient implements Client over the JSON HTTP API.
type HTTPClient struct {
	baseURL  string
	gatePath string
	hc       *http.Client
	tokens   TokenStore
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, gatePath string, timeout time.Duration, tokens TokenStore) *HTTPClient {
	return &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		gatePath: gatePath,
		hc:       &http.Client{Timeout: timeout},
		tokens:   tokens,
	}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registration struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type gateRequest struct {
	Phrase string `json:"phrase"`
}

type passwordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type accountDeletion struct {
	Password string `json:"password"`
}

// Probe reports whether the public surface answers. A masked server and
// no server at this path look the same: false.
func (c *HTTPClient) Probe(ctx context.Context) (bool, error) {
	err := c.call(ctx, http.MethodGet, "/api/health", nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password, confirm string) (*models.Account, error) {
	var acc models.Account
	in := registration{Username: username, Password: password, ConfirmPassword: confirm}
	if err := c.call(ctx, http.MethodPost, "/api/register", nil, in, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Gate submits a phrase to the stealth gate. Any mismatch is ErrGateDenied.
func (c *HTTPClient) Gate(ctx context.Context, phrase string) (*models.GateStep, error) {
	var step models.GateStep
	err := c.call(ctx, http.MethodPost, c.gatePath, nil, gateRequest{Phrase: phrase}, &step)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrGateDenied
	}
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// Login authenticates and stores the session. ticket is the stealth gate
// ticket, empty for the ordinary login form.
func (c *HTTPClient) Login(ctx context.Context, username, password, ticket string) error {
	var header http.Header
	if ticket != "" {
		header = http.Header{}
		header.Set(common.GateTicketHeaderName, ticket)
	}

	var t models.Tokens
	err := c.call(ctx, http.MethodPost, "/api/login", header, credentials{Username: username, Password: password}, &t)
	if errors.Is(err, ErrUnauthorized) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	return c.tokens.Save(ctx, t)
}

// Refresh rotates the stored refresh token.
func (c *HTTPClient) Refresh(ctx context.Context) error {
	t, err := c.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if t.RefreshToken == "" {
		return ErrNotLoggedIn
	}

	var next models.Tokens
	if err := c.call(ctx, http.MethodPost, "/api/token/refresh", nil, refreshRequest{RefreshToken: t.RefreshToken}, &next); err != nil {
		return err
	}
	return c.tokens.Save(ctx, next)
}

// Logout revokes the refresh token on the server and forgets the local
// session. The local session is dropped even when the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	t, err := c.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if t.Empty() {
		return ErrNotLoggedIn
	}

	callErr := c.authorized(ctx, http.MethodPost, "/api/logout", refreshRequest{RefreshToken: t.RefreshToken}, nil)
	if err := c.tokens.Clear(ctx); err != nil {
		return err
	}
	if errors.Is(callErr, ErrUnauthorized) || errors.Is(callErr, ErrNotFound) {
		return nil
	}
	return callErr
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Account, error) {
	var acc models.Account
	if err := c.authorized(ctx, http.MethodGet, "/api/me", nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Summary fetches the totals of month (YYYY-MM; empty means the current month).
func (c *HTTPClient) Summary(ctx context.Context, month string) (*models.Summary, error) {
	path := "/api/summary"
	if month != "" {
		path += "?" + url.Values{"month": {month}}.Encode()
	}

	var s models.Summary
	if err := c.authorized(ctx, http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) SetTravelMode(ctx context.Context, tm models.TravelMode) error {
	return c.authorized(ctx, http.MethodPut, "/api/settings/travel-mode", tm, nil)
}

func (c *HTTPClient) SetDuress(ctx context.Context, username, password string) error {
	return c.authorized(ctx, http.MethodPut, "/api/settings/duress", credentials{Username: username, Password: password}, nil)
}

func (c *HTTPClient) ClearDuress(ctx context.Context) error {
	return c.authorized(ctx, http.MethodDelete, "/api/settings/duress", nil, nil)
}

func (c *HTTPClient) ChangePassword(ctx context.Context, current, next, confirm string) error {
	in := passwordChange{CurrentPassword: current, NewPassword: next, ConfirmPassword: confirm}
	return c.authorized(ctx, http.MethodPut, "/api/settings/password", in, nil)
}

// DeleteAccount removes the account and, on success, the local session.
func (c *HTTPClient) DeleteAccount(ctx context.Context, password string) error {
	if err := c.authorized(ctx, http.MethodDelete, "/api/account", accountDeletion{Password: password}, nil); err != nil {
		return err
	}
	return c.tokens.Clear(ctx)
}

// authorized sends the stored access token. On ErrUnauthorized it refreshes
// once and retries.
func (c *HTTPClient) authorized(ctx context.Context, method, path string, in, out any) error {
	t, err := c.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if t.AccessToken == "" {
		return ErrNotLoggedIn
	}

	err = c.call(ctx, method, path, bearer(t.AccessToken), in, out)
	if !errors.Is(err, ErrUnauthorized) || t.RefreshToken == "" {
		return err
	}

	if rerr := c.Refresh(ctx); rerr != nil {
		return err
	}
	t, err = c.tokens.Load(ctx)
	if err != nil {
		return err
	}
	return c.call(ctx, method, path, bearer(t.AccessToken), in, out)
}

func (c *HTTPClient) call(ctx context.Context, method, path string, header http.Header, in, out any) error {
	return mapError(netx.DoJSON(ctx, c.hc, method, c.baseURL+path, header, in, out))
}

func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case se.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case se.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrRejected, se.Detail)
	default:
		return se
	}
}
