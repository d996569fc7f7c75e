package config

import (
	"strings"
	"time"
)

// Config holds runtime settings for the PocketLedger client.
//
// Fields:
//   - RemoteURL: base URL of the hosted row-store REST endpoint.
//   - RemoteAnonKey: the project's public API key, sent with every request.
//   - IdentityURL: base URL of the identity provider that mints sync tokens.
//   - TokenTemplate: name of the provider-side token profile to mint from.
//   - DatabasePath: sqlite file holding the local ledger.
//   - OnlineCheckInterval: how often the client probes remote reachability.
//   - SyncEnabled: master switch for background synchronization.
type Config struct {
	RemoteURL           string
	RemoteAnonKey       string
	IdentityURL         string
	TokenTemplate       string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	SyncEnabled         bool
}

// LoadDefaults populates c with sensible defaults. Remote settings default
// empty: an unprovisioned build runs fully local.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "pocketledger.db"
	c.OnlineCheckInterval = 30 * time.Second
	c.SyncEnabled = true
}

// SyncConfigured reports whether the remote settings are usable. Empty values
// and template placeholders left over from a scaffolded config file both
// count as not configured; the client then runs local-only without nagging.
func (c *Config) SyncConfigured() bool {
	for _, v := range []string{c.RemoteURL, c.RemoteAnonKey, c.IdentityURL} {
		if v == "" || strings.Contains(v, "YOUR_") || strings.Contains(v, "${") {
			return false
		}
	}
	return true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
