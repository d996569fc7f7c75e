package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pocketledger/pocketledger-go/internal/client/idp"
)

// Login installs a device session issued by the identity provider's external
// login flow. The session secret is read without echo and persisted next to
// the database so restarts stay signed in.
func (a *App) Login(ctx context.Context) error {
	sessionID, err := GetSimpleText(a.reader, "Session id", os.Stdout)
	if err != nil {
		return err
	}
	externalID, err := GetSimpleText(a.reader, "Account id", os.Stdout)
	if err != nil {
		return err
	}
	secret, err := GetSecret("Session secret", os.Stdout)
	if err != nil {
		return err
	}

	session := &idp.Session{SessionID: sessionID, ExternalID: externalID, Secret: string(secret)}
	a.idp.SetSession(session)

	if err := a.saveSession(session); err != nil {
		printlnFn("Warning: session not persisted:", err.Error())
	}

	a.coord.IdentityChanged(ctx)
	printlnFn("Signed in as", externalID)
	return nil
}

// Logout clears the session and the cached sync credential. Local data stays
// put; only the identity is gone.
func (a *App) Logout(ctx context.Context) error {
	a.idp.SetSession(nil)
	if err := os.Remove(a.sessionPath); err != nil && !os.IsNotExist(err) {
		printlnFn("Warning:", err.Error())
	}
	a.coord.IdentityChanged(ctx)
	printlnFn("Signed out.")
	return nil
}

func (a *App) saveSession(session *idp.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(a.sessionPath, data, 0o600)
}

func (a *App) Sync(ctx context.Context) error {
	if err := a.coord.Sync(ctx); err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}
	printlnFn("Sync complete.")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	tracker := a.coord.Status()
	printlnFn("Status:", string(tracker.Status()))
	if msg := tracker.LastError(); msg != "" {
		printlnFn("Last error:", msg)
	}
	return nil
}
