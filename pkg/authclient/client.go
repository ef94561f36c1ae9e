package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dcastellanos/gestion_distribuidora/pkg/identity"
	"github.com/dcastellanos/gestion_distribuidora/pkg/tokenstore"
)

// ErrNoToken is returned by CurrentUser when the store holds no token, so
// callers can skip the round trip entirely.
var ErrNoToken = errors.New("authclient: no token")

// AuthError carries the backend-provided message for a failed auth call.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return e.Message }

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *tokenstore.Store
	log        *slog.Logger
}

func New(baseURL string, store *tokenstore.Store, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		store: store,
		log:   log,
	}
}

type loginResponse struct {
	Token       string         `json:"token"`
	AccessToken string         `json:"access_token"`
	User        *identity.User `json:"user"`
}

type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (e errorResponse) text(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// Login posts the credentials, persists the returned token and returns the
// user payload when the backend includes one. The token is accepted under
// "token" or, for older backend deploys, "access_token".
func (c *Client) Login(ctx context.Context, creds identity.Credentials) (*identity.User, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Message: "no se pudo contactar al servidor"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, &AuthError{Status: resp.StatusCode, Message: e.text("credenciales inválidas")}
	}

	var payload loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &AuthError{Status: resp.StatusCode, Message: "respuesta de login inválida"}
	}
	token := payload.Token
	if token == "" {
		token = payload.AccessToken
	}
	if token == "" {
		return nil, &AuthError{Status: resp.StatusCode, Message: "respuesta de login sin token"}
	}
	if err := c.store.SetToken(token); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// Logout tells the backend to invalidate the session when a token exists and
// then clears the local session unconditionally. The server error, if any,
// is returned for callers that care, but local state is always gone.
func (c *Client) Logout(ctx context.Context) error {
	var serverErr error
	if token := c.store.Token(); token != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout/", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := c.httpClient.Do(req)
			if err != nil {
				serverErr = err
			} else {
				if resp.StatusCode >= 400 {
					serverErr = fmt.Errorf("logout status %d", resp.StatusCode)
				}
				resp.Body.Close()
			}
		}
		if serverErr != nil {
			c.log.Warn("logout request failed", "error", serverErr)
		}
	}
	c.ClearSession()
	return serverErr
}

// CurrentUser fetches the profile behind the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*identity.User, error) {
	token := c.store.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/user/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &AuthError{Message: "no se pudo obtener el usuario"}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Status: resp.StatusCode, Message: "no se pudo obtener el usuario"}
	}
	var u identity.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, &AuthError{Message: "no se pudo obtener el usuario"}
	}
	return &u, nil
}

// IsAuthenticated reports a complete local session: stored token, unexpired
// expiry claim, and a cached user record.
func (c *Client) IsAuthenticated() bool {
	return c.store.Token() != "" && c.store.IsTokenValid() && c.store.User() != nil
}

func (c *Client) Token() string                   { return c.store.Token() }
func (c *Client) TokenValid() bool                { return c.store.IsTokenValid() }
func (c *Client) CachedUser() *identity.User      { return c.store.User() }
func (c *Client) SaveUser(u *identity.User) error { return c.store.SaveUser(u) }

// ClearSession removes the token and the cached user record.
func (c *Client) ClearSession() {
	if err := c.store.RemoveToken(); err != nil {
		c.log.Warn("remove token failed", "error", err)
	}
	if err := c.store.RemoveUser(); err != nil {
		c.log.Warn("remove cached user failed", "error", err)
	}
}
