package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/flagx"
	"github.com/pocketledger/pocketledger-go/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	RemoteURL           string         `json:"remote_url"`
	RemoteAnonKey       string         `json:"remote_anon_key"`
	IdentityURL         string         `json:"identity_url"`
	TokenTemplate       string         `json:"token_template"`
	DatabasePath        string         `json:"database_path"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncEnabled         *bool          `json:"sync_enabled"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// -c or -config. Absent file path means no JSON layer; read or unmarshal
// errors panic, this runs once at startup before anything is open.
// Only fields present in the file override; absent ones keep their defaults.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.RemoteURL != "" {
		cfg.RemoteURL = jc.RemoteURL
	}
	if jc.RemoteAnonKey != "" {
		cfg.RemoteAnonKey = jc.RemoteAnonKey
	}
	if jc.IdentityURL != "" {
		cfg.IdentityURL = jc.IdentityURL
	}
	if jc.TokenTemplate != "" {
		cfg.TokenTemplate = jc.TokenTemplate
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SyncEnabled != nil {
		cfg.SyncEnabled = *jc.SyncEnabled
	}
}
