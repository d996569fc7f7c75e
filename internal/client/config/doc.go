// Package config loads runtime configuration for the PocketLedger client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "remote_url": "https://project.example.co",
//	  "remote_anon_key": "eyJ...",
//	  "identity_url": "https://identity.example.com",
//	  "token_template": "app-sync",
//	  "database_path": "pocketledger.db",
//	  "online_check_interval": "30s",
//	  "sync_enabled": true
//	}
//
// An unconfigured remote (empty values, or placeholders like YOUR_PROJECT
// left in a scaffolded file) is not an error: SyncConfigured reports false
// and the client runs local-only.
//
// This package does not read environment variables directly; use the JSON
// file or flags to configure values.
package config
