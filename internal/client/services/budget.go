package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/budgets"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/queue"
	"github.com/pocketledger/pocketledger-go/internal/client/storage"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/dbx"
)

type BudgetService interface {
	List(ctx context.Context) ([]*models.Budget, error)
	Get(ctx context.Context, id string) (*models.Budget, error)
	Create(ctx context.Context, b *models.Budget) error
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, id string) error

	AddItem(ctx context.Context, i *models.BudgetItem) error
	UpdateItem(ctx context.Context, i *models.BudgetItem) error
	DeleteItem(ctx context.Context, id string) error
}

type budgetService struct {
	repos *storage.Repositories
	now   func() time.Time
}

func NewBudgetService(repos *storage.Repositories) BudgetService {
	return &budgetService{repos: repos, now: time.Now}
}

func (s *budgetService) List(ctx context.Context) ([]*models.Budget, error) {
	all, err := s.repos.Budgets.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing budgets: %w", err)
	}
	result := make([]*models.Budget, 0, len(all))
	for _, b := range all {
		if b.Deleted() {
			continue
		}
		items := make([]*models.BudgetItem, 0, len(b.Items))
		for _, item := range b.Items {
			if !item.Deleted() {
				items = append(items, item)
			}
		}
		b.Items = items
		result = append(result, b)
	}
	return result, nil
}

func (s *budgetService) Get(ctx context.Context, id string) (*models.Budget, error) {
	return s.repos.Budgets.GetByID(ctx, id)
}

// Create writes the budget row and every item it arrived with, queueing one
// intent per row. The whole batch commits or none of it does.
func (s *budgetService) Create(ctx context.Context, b *models.Budget) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := s.now().UnixMilli()
	b.Touch(now)

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := budgets.NewSQLiteRepository(tx)
		q := queue.NewSQLiteRepository(tx)

		if err := repo.Upsert(ctx, b); err != nil {
			return fmt.Errorf("error saving budget: %w", err)
		}
		if err := enqueueEntity(ctx, q, models.EntityBudget, models.ActionCreate, b.ID, b); err != nil {
			return err
		}

		for _, item := range b.Items {
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			item.BudgetID = b.ID
			item.Touch(now)
			if err := repo.UpsertItem(ctx, item); err != nil {
				return fmt.Errorf("error saving budget item: %w", err)
			}
			if err := enqueueEntity(ctx, q, models.EntityBudgetItem, models.ActionCreate, item.ID, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update touches the budget row only; items change through the item methods.
func (s *budgetService) Update(ctx context.Context, b *models.Budget) error {
	b.Touch(s.now().UnixMilli())

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := budgets.NewSQLiteRepository(tx).Upsert(ctx, b); err != nil {
			return fmt.Errorf("error saving budget: %w", err)
		}
		return enqueueEntity(ctx, queue.NewSQLiteRepository(tx), models.EntityBudget, models.ActionUpdate, b.ID, b)
	})
}

// Delete tombstones the budget and each of its items, so the remote rows all
// get an explicit delete rather than relying on cascade behavior.
func (s *budgetService) Delete(ctx context.Context, id string) error {
	b, err := s.repos.Budgets.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error retrieving budget: %w", err)
	}
	now := s.now().UnixMilli()
	b.Tombstone(now)

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := budgets.NewSQLiteRepository(tx)
		q := queue.NewSQLiteRepository(tx)

		for _, item := range b.Items {
			item.Tombstone(now)
			if err := repo.UpsertItem(ctx, item); err != nil {
				return fmt.Errorf("error saving item tombstone: %w", err)
			}
			if err := enqueueDelete(ctx, q, models.EntityBudgetItem, item.ID); err != nil {
				return err
			}
		}

		if err := repo.Upsert(ctx, b); err != nil {
			return fmt.Errorf("error saving tombstone: %w", err)
		}
		return enqueueDelete(ctx, q, models.EntityBudget, b.ID)
	})
}

func (s *budgetService) AddItem(ctx context.Context, i *models.BudgetItem) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return s.writeItem(ctx, i, models.ActionCreate)
}

func (s *budgetService) UpdateItem(ctx context.Context, i *models.BudgetItem) error {
	return s.writeItem(ctx, i, models.ActionUpdate)
}

func (s *budgetService) writeItem(ctx context.Context, i *models.BudgetItem, action models.QueueAction) error {
	if _, err := s.repos.Budgets.GetByID(ctx, i.BudgetID); err != nil {
		return fmt.Errorf("error retrieving parent budget: %w", err)
	}
	i.Touch(s.now().UnixMilli())

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := budgets.NewSQLiteRepository(tx).UpsertItem(ctx, i); err != nil {
			return fmt.Errorf("error saving budget item: %w", err)
		}
		return enqueueEntity(ctx, queue.NewSQLiteRepository(tx), models.EntityBudgetItem, action, i.ID, i)
	})
}

func (s *budgetService) DeleteItem(ctx context.Context, id string) error {
	all, err := s.repos.Budgets.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error retrieving budgets: %w", err)
	}
	var target *models.BudgetItem
	for _, b := range all {
		for _, item := range b.Items {
			if item.ID == id {
				target = item
				break
			}
		}
	}
	if target == nil {
		return fmt.Errorf("error retrieving budget item %s: %w", id, common.ErrNotFound)
	}
	target.Tombstone(s.now().UnixMilli())

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := budgets.NewSQLiteRepository(tx).UpsertItem(ctx, target); err != nil {
			return fmt.Errorf("error saving item tombstone: %w", err)
		}
		return enqueueDelete(ctx, queue.NewSQLiteRepository(tx), models.EntityBudgetItem, id)
	})
}

func enqueueEntity(ctx context.Context, q queue.Repository, kind models.EntityKind, action models.QueueAction, id string, entity any) error {
	payload, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", kind, err)
	}
	return q.Enqueue(ctx, &models.QueueItem{
		ID:       uuid.NewString(),
		Kind:     kind,
		Action:   action,
		EntityID: id,
		Payload:  payload,
	})
}

func enqueueDelete(ctx context.Context, q queue.Repository, kind models.EntityKind, id string) error {
	return q.Enqueue(ctx, &models.QueueItem{
		ID:       uuid.NewString(),
		Kind:     kind,
		Action:   models.ActionDelete,
		EntityID: id,
		Payload:  json.RawMessage(`{}`),
	})
}
