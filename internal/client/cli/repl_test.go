package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) ListContacts(ctx context.Context) error      { return f.record("contacts") }
func (f *fakeExec) AddContact(ctx context.Context) error        { return f.record("addcontact") }
func (f *fakeExec) DeleteContact(ctx context.Context) error     { return f.record("delcontact") }
func (f *fakeExec) ListTransactions(ctx context.Context) error  { return f.record("tx") }
func (f *fakeExec) AddTransaction(ctx context.Context) error    { return f.record("addtx") }
func (f *fakeExec) DeleteTransaction(ctx context.Context) error { return f.record("deltx") }
func (f *fakeExec) ListBudgets(ctx context.Context) error       { return f.record("budgets") }
func (f *fakeExec) AddBudget(ctx context.Context) error         { return f.record("addbudget") }
func (f *fakeExec) DeleteBudget(ctx context.Context) error      { return f.record("delbudget") }
func (f *fakeExec) Sync(ctx context.Context) error              { return f.record("sync") }
func (f *fakeExec) Status(ctx context.Context) error            { return f.record("status") }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"addcontact",
		"contacts",
		"addtx",
		"tx",
		"sync",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "addcontact", "contacts", "addtx", "tx", "sync"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ShortAliases(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("c\nt\nb\nquit\n")
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	want := []string{"contacts", "tx", "budgets"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("calls: got %v, want %v", exec.calls, want)
		}
	}
}

func TestRunREPL_EOFExits(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
