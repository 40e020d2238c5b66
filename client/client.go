// Package client is the API boundary used by the study front ends. It owns the bearer
// token: only Login, Logout and a 401 response change it.
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

	"smartstudy/logger"
	"smartstudy/models"
)

type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          TokenStore
	log            *logger.Logger
	onUnauthorized func()

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithTokenStore(s TokenStore) Option {
	return func(c *Client) { c.store = s }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUnauthorizedHandler runs after a 401 has cleared the token, so the caller can
// return to its login view.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New restores any token held by the store.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 3 * time.Minute},
		store:      &MemoryTokenStore{},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	token, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	c.token = token
	return c, nil
}

func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Login stores the token on success. Rejected credentials are not an error: the
// response carries Success=false and the server's message.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var login models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "unreadable login response", Err: err}
	}
	if !login.Success {
		if login.Message == "" {
			login.Message = http.StatusText(resp.StatusCode)
		}
		c.log.Info("Login rejected", "username", username, "status", resp.StatusCode)
		return &login, nil
	}
	if login.Token == "" {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "login response has no token"}
	}

	if err := c.setToken(login.Token); err != nil {
		return nil, err
	}
	c.log.Info("Logged in", "username", username)
	return &login, nil
}

// Logout forgets the token. Calling it again is harmless.
func (c *Client) Logout() error {
	return c.setToken("")
}

func (c *Client) setToken(token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if token == "" {
		return c.store.Clear()
	}
	return c.store.Save(token)
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// do sends one authenticated request and returns the envelope's data.
func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	token := c.currentToken()
	if token == "" {
		return nil, &AuthenticationError{Err: ErrNotAuthenticated}
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Request failed", "path", path, "error", err)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()
	c.log.Debug("Request completed", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		c.log.Warn("Token rejected, logging out", "path", path)
		if err := c.setToken(""); err != nil {
			c.log.Error("Failed to clear token", "error", err)
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &AuthenticationError{Err: ErrUnauthorized}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		msg := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			msg = apiErr.Error
			if apiErr.Message != "" {
				msg += ": " + apiErr.Message
			}
		}
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: msg}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "unreadable response envelope", Err: err}
	}
	if !env.Success {
		return nil, &TransportError{StatusCode: resp.StatusCode, Message: "request was not successful"}
	}
	return env.Data, nil
}

func (c *Client) generate(ctx context.Context, action models.Action, payload any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/generate", map[string]any{
		"action":  action,
		"payload": payload,
	})
}

// generateText runs an action whose data is a plain string.
func (c *Client) generateText(ctx context.Context, action models.Action, payload any) (string, error) {
	data, err := c.generate(ctx, action, payload)
	if err != nil {
		return "", err
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return "", &TransportError{Message: fmt.Sprintf("%s returned non-text data", action), Err: err}
	}
	return text, nil
}

func decodeData(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Message: "unexpected response data", Err: err}
	}
	return nil
}
