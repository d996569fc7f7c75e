// Package common defines shared constants and sentinel errors used across
// the pocketledger sync engine. Callers should use errors.Is to match these
// values; lower layers wrap them with fmt.Errorf("...: %w", err) to add
// context without losing the classification.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Connectivity: no network reachability, checked before any remote
	// attempt and short-circuits the cycle.
	ErrOffline = errors.New("offline")

	// A network call exceeded its deadline. Retryable with backoff.
	ErrTimeout = errors.New("timeout")

	// Credential lifecycle errors.
	ErrCredentialMissing = errors.New("credential missing")
	ErrTokenExpired      = errors.New("token expired")

	// The identity provider has no token profile configured for this app.
	// Sticky: never retried automatically, requires an external fix.
	ErrConfigMissing = errors.New("token template not configured")

	// Generic non-2xx from the remote store. The triggering queue item is
	// left queued and retried on the next cycle.
	ErrRemoteRejected = errors.New("remote rejected")

	ErrUnauthorized = errors.New("unauthorized")
)
