// Package cli provides the interactive PocketLedger command-line client.
//
// It wires configuration, local storage, the write-path services, and the
// sync engine behind an interactive REPL. All commands work offline; the
// background watcher picks up queued changes whenever the remote store is
// reachable again.
//
// Key commands:
//   - contacts / addcontact / delcontact
//   - tx / addtx / deltx
//   - budgets / addbudget / delbudget
//   - sync / status
//   - login / logout
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
