// Package idp is the HTTP client for the external identity provider. The
// provider owns the login flow; this client only consumes an established
// device session: it reports sign-in state and mints short-lived sync tokens
// from a named token profile.
package idp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/logging"
)

const requestTimeout = 10 * time.Second

// Session is the device session the provider's login flow leaves behind.
type Session struct {
	SessionID  string `json:"session_id"`
	ExternalID string `json:"external_id"`
	Secret     string `json:"secret"`
}

// Client implements credentials.TokenSource over the provider's REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu      sync.RWMutex
	session *Session
}

func NewClient(baseURL string, log logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log.With("component", "idp"),
	}
}

// LoadSession reads a persisted device session from path. A missing file is
// not an error: the user simply is not signed in yet.
func (c *Client) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	c.SetSession(&s)
	return nil
}

// SetSession installs (or, with nil, clears) the active device session.
func (c *Client) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) SignedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil && c.session.SessionID != ""
}

func (c *Client) ExternalID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.ExternalID
}

type tokenResponse struct {
	JWT string `json:"jwt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Token mints a fresh sync token from the named token profile. A 404 means
// the profile was never provisioned on the provider side and maps to
// common.ErrConfigMissing.
func (c *Client) Token(ctx context.Context, template string) (string, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return "", common.ErrCredentialMissing
	}

	url := fmt.Sprintf("%s/v1/sessions/%s/tokens/%s", c.baseURL, session.SessionID, template)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+session.Secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: token request: %v", common.ErrTimeout, err)
		}
		return "", fmt.Errorf("token request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("token response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: token profile %q not found", common.ErrConfigMissing, template)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: session rejected", common.ErrUnauthorized)
	case resp.StatusCode >= 400:
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return "", fmt.Errorf("token request failed: %s", e.Error)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("token response: %w", err)
	}
	if tr.JWT == "" {
		return "", errors.New("token response: empty jwt")
	}
	return tr.JWT, nil
}
