package config

import (
	"flag"
	"os"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-r string   base URL of the remote row-store
//	-k string   public API key for the remote row-store
//	-p string   base URL of the identity provider
//	-t string   token profile name
//	-d string   path to the local sqlite database
//	-i int      online check interval in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-k", "-p", "-t", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteURL, "r", cfg.RemoteURL, "base URL of the remote row-store")
	fs.StringVar(&cfg.RemoteAnonKey, "k", cfg.RemoteAnonKey, "public API key for the remote row-store")
	fs.StringVar(&cfg.IdentityURL, "p", cfg.IdentityURL, "base URL of the identity provider")
	fs.StringVar(&cfg.TokenTemplate, "t", cfg.TokenTemplate, "token profile name")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
