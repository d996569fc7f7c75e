package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/queue"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/transactions"
	"github.com/pocketledger/pocketledger-go/internal/client/storage"
	"github.com/pocketledger/pocketledger-go/internal/dbx"
)

var ErrInvalidAmount = errors.New("transaction amount must be positive")

type TransactionService interface {
	List(ctx context.Context) ([]*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	Create(ctx context.Context, t *models.Transaction) error
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, id string) error
}

type transactionService struct {
	repos *storage.Repositories
	now   func() time.Time
}

func NewTransactionService(repos *storage.Repositories) TransactionService {
	return &transactionService{repos: repos, now: time.Now}
}

func (s *transactionService) List(ctx context.Context) ([]*models.Transaction, error) {
	all, err := s.repos.Transactions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	result := make([]*models.Transaction, 0, len(all))
	for _, t := range all {
		if !t.Deleted() {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *transactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.repos.Transactions.GetByID(ctx, id)
}

func (s *transactionService) Create(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return s.write(ctx, t, models.ActionCreate)
}

func (s *transactionService) Update(ctx context.Context, t *models.Transaction) error {
	return s.write(ctx, t, models.ActionUpdate)
}

func (s *transactionService) write(ctx context.Context, t *models.Transaction, action models.QueueAction) error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	t.Touch(s.now().UnixMilli())

	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("error encoding transaction: %w", err)
	}

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := transactions.NewSQLiteRepository(tx).Upsert(ctx, t); err != nil {
			return fmt.Errorf("error saving transaction: %w", err)
		}
		return queue.NewSQLiteRepository(tx).Enqueue(ctx, &models.QueueItem{
			ID:       uuid.NewString(),
			Kind:     models.EntityTransaction,
			Action:   action,
			EntityID: t.ID,
			Payload:  payload,
		})
	})
}

func (s *transactionService) Delete(ctx context.Context, id string) error {
	t, err := s.repos.Transactions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error retrieving transaction: %w", err)
	}
	t.Tombstone(s.now().UnixMilli())

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := transactions.NewSQLiteRepository(tx).Upsert(ctx, t); err != nil {
			return fmt.Errorf("error saving tombstone: %w", err)
		}
		return queue.NewSQLiteRepository(tx).Enqueue(ctx, &models.QueueItem{
			ID:       uuid.NewString(),
			Kind:     models.EntityTransaction,
			Action:   models.ActionDelete,
			EntityID: t.ID,
			Payload:  json.RawMessage(`{}`),
		})
	})
}
