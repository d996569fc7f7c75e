// Package storage opens the local database, applies migrations, and bundles
// the per-collection repositories behind one handle.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketledger/pocketledger-go/internal/client/repositories/budgets"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/contacts"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/metadata"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/queue"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/transactions"
	"github.com/pocketledger/pocketledger-go/internal/client/storage/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the local stores over one database connection.
// The DB handle is exposed so callers can compose multi-repo transactions
// through dbx.WithTx.
type Repositories struct {
	DB           *sql.DB
	Contacts     contacts.Repository
	Transactions transactions.Repository
	Budgets      budgets.Repository
	Queue        queue.Repository
	Metadata     metadata.Repository
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the sqlite database at dsn, migrates it,
// and returns the repository bundle.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection: sqlite allows a single writer, and a pooled second
	// connection to a :memory: dsn would see a separate empty database
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:           db,
		Contacts:     contacts.NewSQLiteRepository(db),
		Transactions: transactions.NewSQLiteRepository(db),
		Budgets:      budgets.NewSQLiteRepository(db),
		Queue:        queue.NewSQLiteRepository(db),
		Metadata:     metadata.NewSQLiteRepository(db),
	}, nil
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
