package cli

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/pocketledger/pocketledger-go/internal/client/config"
	"github.com/pocketledger/pocketledger-go/internal/client/credentials"
	"github.com/pocketledger/pocketledger-go/internal/client/idp"
	"github.com/pocketledger/pocketledger-go/internal/client/remote"
	"github.com/pocketledger/pocketledger-go/internal/client/services"
	"github.com/pocketledger/pocketledger-go/internal/client/storage"
	"github.com/pocketledger/pocketledger-go/internal/client/sync"
	"github.com/pocketledger/pocketledger-go/internal/logging"
	"github.com/pocketledger/pocketledger-go/internal/netx"
)

const sessionFileName = "session.json"

type App struct {
	config *config.Config
	repos  *storage.Repositories

	contacts     services.ContactService
	transactions services.TransactionService
	budgets      services.BudgetService

	idp     *idp.Client
	creds   *credentials.Manager
	coord   *sync.Coordinator
	watcher *sync.Watcher

	log         logging.Logger
	reader      *bufio.Reader
	sessionPath string
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repos, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	idpClient := idp.NewClient(cfg.IdentityURL, log)
	sessionPath := filepath.Join(filepath.Dir(cfg.DatabasePath), sessionFileName)
	if err := idpClient.LoadSession(sessionPath); err != nil {
		log.Warn(ctx, "failed to load session, starting signed out", "error", err)
	}

	creds := credentials.NewManager(idpClient, cfg.TokenTemplate, log)
	store := remote.NewRESTClient(cfg.RemoteURL, cfg.RemoteAnonKey, creds.FetchToken, log)

	coord := sync.NewCoordinator(repos, store, creds, log)
	coord.SetEnabled(cfg.SyncEnabled && cfg.SyncConfigured())

	watcher := sync.NewWatcher(coord, netx.NewProber(cfg.RemoteURL), cfg.OnlineCheckInterval, log)

	return &App{
		config:       cfg,
		repos:        repos,
		contacts:     services.NewContactService(repos),
		transactions: services.NewTransactionService(repos),
		budgets:      services.NewBudgetService(repos),
		idp:          idpClient,
		creds:        creds,
		coord:        coord,
		watcher:      watcher,
		log:          log,
		reader:       bufio.NewReader(os.Stdin),
		sessionPath:  sessionPath,
	}, nil
}

// Run starts the background connectivity watcher and blocks in the REPL
// until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.repos.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.config.SyncEnabled && a.config.SyncConfigured() {
		go a.watcher.Run(ctx)
	}

	runREPL(ctx, a, a.statusLine, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.idp.SignedIn()
}

func (a *App) statusLine() string {
	who := "signed out"
	if a.isLoggedIn() {
		who = a.idp.ExternalID()
	}
	return who + " | " + string(a.coord.Status().Status())
}
