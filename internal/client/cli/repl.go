package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	ListContacts(ctx context.Context) error
	AddContact(ctx context.Context) error
	DeleteContact(ctx context.Context) error

	ListTransactions(ctx context.Context) error
	AddTransaction(ctx context.Context) error
	DeleteTransaction(ctx context.Context) error

	ListBudgets(ctx context.Context) error
	AddBudget(ctx context.Context) error
	DeleteBudget(ctx context.Context) error

	Sync(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the PocketLedger CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pl> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Ledger: contacts, addcontact, delcontact, tx, addtx, deltx, budgets, addbudget, delbudget")
			if a.isLoggedIn() {
				printlnFn("Sync: sync, status, logout, exit")
			} else {
				printlnFn("Sync: status, login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "c", "contacts":
			_ = a.ListContacts(ctx)

		case "addcontact":
			_ = a.AddContact(ctx)

		case "delcontact":
			_ = a.DeleteContact(ctx)

		case "t", "tx":
			_ = a.ListTransactions(ctx)

		case "addtx":
			_ = a.AddTransaction(ctx)

		case "deltx":
			_ = a.DeleteTransaction(ctx)

		case "b", "budgets":
			_ = a.ListBudgets(ctx)

		case "addbudget":
			_ = a.AddBudget(ctx)

		case "delbudget":
			_ = a.DeleteBudget(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
