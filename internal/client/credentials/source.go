// Package credentials manages the short-lived bearer token used against the
// remote store: fetching it from the identity provider, caching it in memory
// only, and recovering exactly once from expiry-class failures.
package credentials

import "context"

// TokenSource is the boundary to the external identity provider. It issues
// short-lived signed tokens on request and answers sign-in state; its login
// flow is out of scope here.
type TokenSource interface {
	// Token requests a fresh token minted from the named token profile.
	// Implementations return common.ErrConfigMissing when the provider has
	// no such profile configured for this app.
	Token(ctx context.Context, template string) (string, error)

	// SignedIn reports whether an identity is currently signed in.
	SignedIn() bool

	// ExternalID is the provider's stable subject for the signed-in
	// identity, used to bind the remote app-user row.
	ExternalID() string
}
