// Package services implements the local write path: every mutation updates
// the entity store and appends a queue intent inside one transaction, so a
// dirty record and its pending push can never drift apart.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/contacts"
	"github.com/pocketledger/pocketledger-go/internal/client/repositories/queue"
	"github.com/pocketledger/pocketledger-go/internal/client/storage"
	"github.com/pocketledger/pocketledger-go/internal/dbx"
)

type ContactService interface {
	List(ctx context.Context) ([]*models.Contact, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	Create(ctx context.Context, c *models.Contact) error
	Update(ctx context.Context, c *models.Contact) error
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repos *storage.Repositories
	now   func() time.Time
}

func NewContactService(repos *storage.Repositories) ContactService {
	return &contactService{repos: repos, now: time.Now}
}

func (s *contactService) List(ctx context.Context) ([]*models.Contact, error) {
	all, err := s.repos.Contacts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing contacts: %w", err)
	}
	// tombstoned records wait for sync confirmation but are dead to the UI
	result := make([]*models.Contact, 0, len(all))
	for _, c := range all {
		if !c.Deleted() {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *contactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	return s.repos.Contacts.GetByID(ctx, id)
}

func (s *contactService) Create(ctx context.Context, c *models.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return s.write(ctx, c, models.ActionCreate)
}

func (s *contactService) Update(ctx context.Context, c *models.Contact) error {
	return s.write(ctx, c, models.ActionUpdate)
}

func (s *contactService) write(ctx context.Context, c *models.Contact, action models.QueueAction) error {
	c.Touch(s.now().UnixMilli())

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding contact: %w", err)
	}

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := contacts.NewSQLiteRepository(tx).Upsert(ctx, c); err != nil {
			return fmt.Errorf("error saving contact: %w", err)
		}
		return queue.NewSQLiteRepository(tx).Enqueue(ctx, &models.QueueItem{
			ID:       uuid.NewString(),
			Kind:     models.EntityContact,
			Action:   action,
			EntityID: c.ID,
			Payload:  payload,
		})
	})
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	c, err := s.repos.Contacts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error retrieving contact: %w", err)
	}
	c.Tombstone(s.now().UnixMilli())

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := contacts.NewSQLiteRepository(tx).Upsert(ctx, c); err != nil {
			return fmt.Errorf("error saving tombstone: %w", err)
		}
		return queue.NewSQLiteRepository(tx).Enqueue(ctx, &models.QueueItem{
			ID:       uuid.NewString(),
			Kind:     models.EntityContact,
			Action:   models.ActionDelete,
			EntityID: c.ID,
			Payload:  json.RawMessage(`{}`),
		})
	})
}
