package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/logging"
)

const (
	// fetchTimeout bounds a single token request to the identity provider.
	fetchTimeout = 5 * time.Second

	// expirySkew treats a cached token as stale slightly before its exp
	// claim, so we do not hand out a token that dies in flight.
	expirySkew = 30 * time.Second
)

// Manager caches the bearer token in memory only. It is never persisted;
// sign-out, sync-disable, and unrecoverable refresh failures all clear it.
type Manager struct {
	source   TokenSource
	template string
	log      logging.Logger

	now func() time.Time

	mu    sync.Mutex
	token string
}

func NewManager(source TokenSource, template string, log logging.Logger) *Manager {
	return &Manager{
		source:   source,
		template: template,
		log:      log.With("component", "credentials"),
		now:      time.Now,
	}
}

// Bound reports whether a token is currently cached.
func (m *Manager) Bound() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

// SignedIn proxies the identity provider's sign-in state.
func (m *Manager) SignedIn() bool {
	return m.source.SignedIn()
}

// ExternalID proxies the provider's stable subject for the signed-in identity.
func (m *Manager) ExternalID() string {
	return m.source.ExternalID()
}

// FetchToken returns the cached token when it is still usable, otherwise
// requests a fresh one with a hard 5-second deadline. Outcomes:
// (token, nil); common.ErrConfigMissing when the token profile is not
// provisioned; common.ErrTimeout when the provider did not answer in time;
// any other error for generic failures. On any non-nil error the caller must
// not proceed to a remote call.
func (m *Manager) FetchToken(ctx context.Context) (string, error) {
	if m.template == "" {
		return "", common.ErrConfigMissing
	}
	if !m.source.SignedIn() {
		return "", common.ErrCredentialMissing
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && !m.stale(m.token) {
		return m.token, nil
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	token, err := m.source.Token(ctx, m.template)
	if err != nil {
		if errors.Is(err, common.ErrConfigMissing) {
			return "", err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: token fetch: %v", common.ErrTimeout, err)
		}
		return "", fmt.Errorf("token fetch: %w", err)
	}

	m.token = token
	return token, nil
}

// Invalidate drops the cached token.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

// stale checks the token's exp claim without verifying the signature; the
// remote store verifies, we only schedule. Tokens without a readable exp are
// assumed usable and left to the remote to reject.
func (m *Manager) stale(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return m.now().Add(expirySkew).After(exp.Time)
}

// RetryOnceOnExpiry runs fn; when fn fails with an expiry-class error, it
// clears the cache, fetches one fresh token, and retries fn exactly once.
// The retry's outcome, success or failure, is final: no further refreshes,
// so a broken credential cannot cause a refresh storm.
func (m *Manager) RetryOnceOnExpiry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || !common.IsExpiryErr(err) {
		return err
	}

	m.log.Info(ctx, "token expired, refreshing once")
	m.Invalidate()

	if _, ferr := m.FetchToken(ctx); ferr != nil {
		if errors.Is(ferr, common.ErrConfigMissing) {
			return ferr
		}
		// still expiry-class: the caller treats an unrecovered expiry as
		// a sign-in problem, not a generic failure
		return fmt.Errorf("%w: refresh failed: %v", common.ErrTokenExpired, ferr)
	}

	return fn(ctx)
}
