package remote

import (
	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/shopspring/decimal"
)

// Row DTOs mirror the remote store's native column naming (snake_case,
// explicit user_id owner column). The transforms below are pure and
// bidirectional; they round-trip every domain field. The synced flag is
// local-only and the remote never stores tombstones (deletes are hard), so
// neither crosses the wire; updated_at does, because conflict resolution
// depends on it.

type contactRow struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Note      string `json:"note"`
	UpdatedAt int64  `json:"updated_at"`
}

type transactionRow struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	ContactID  *string         `json:"contact_id"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
	OccurredAt int64           `json:"occurred_at"`
	Note       string          `json:"note"`
	UpdatedAt  int64           `json:"updated_at"`
}

type budgetRow struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	PeriodStart int64           `json:"period_start"`
	PeriodEnd   int64           `json:"period_end"`
	UpdatedAt   int64           `json:"updated_at"`

	// Populated only on snapshot reads via the embedded join.
	Items []budgetItemRow `json:"budget_items,omitempty"`
}

type budgetItemRow struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	BudgetID  string          `json:"budget_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Position  int             `json:"position"`
	UpdatedAt int64           `json:"updated_at"`
}

type appUserRow struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
}

func contactToRow(userID string, c *models.Contact) contactRow {
	return contactRow{
		ID:        c.ID,
		UserID:    userID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Note:      c.Note,
		UpdatedAt: c.UpdatedAt,
	}
}

func rowToContact(r contactRow) *models.Contact {
	return &models.Contact{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Note:     r.Note,
		SyncMeta: models.SyncMeta{Synced: true, UpdatedAt: r.UpdatedAt},
	}
}

func transactionToRow(userID string, t *models.Transaction) transactionRow {
	return transactionRow{
		ID:         t.ID,
		UserID:     userID,
		ContactID:  t.ContactID,
		Title:      t.Title,
		Amount:     t.Amount,
		Kind:       string(t.Kind),
		OccurredAt: t.OccurredAt,
		Note:       t.Note,
		UpdatedAt:  t.UpdatedAt,
	}
}

func rowToTransaction(r transactionRow) *models.Transaction {
	return &models.Transaction{
		ID:         r.ID,
		ContactID:  r.ContactID,
		Title:      r.Title,
		Amount:     r.Amount,
		Kind:       models.TransactionKind(r.Kind),
		OccurredAt: r.OccurredAt,
		Note:       r.Note,
		SyncMeta:   models.SyncMeta{Synced: true, UpdatedAt: r.UpdatedAt},
	}
}

func budgetToRow(userID string, b *models.Budget) budgetRow {
	return budgetRow{
		ID:          b.ID,
		UserID:      userID,
		Title:       b.Title,
		TotalBudget: b.TotalBudget,
		PeriodStart: b.PeriodStart,
		PeriodEnd:   b.PeriodEnd,
		UpdatedAt:   b.UpdatedAt,
	}
}

func rowToBudget(r budgetRow) *models.Budget {
	b := &models.Budget{
		ID:          r.ID,
		Title:       r.Title,
		TotalBudget: r.TotalBudget,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		SyncMeta:    models.SyncMeta{Synced: true, UpdatedAt: r.UpdatedAt},
	}
	for _, item := range r.Items {
		b.Items = append(b.Items, rowToBudgetItem(item))
	}
	return b
}

func budgetItemToRow(userID string, i *models.BudgetItem) budgetItemRow {
	return budgetItemRow{
		ID:        i.ID,
		UserID:    userID,
		BudgetID:  i.BudgetID,
		Title:     i.Title,
		Amount:    i.Amount,
		Position:  i.Position,
		UpdatedAt: i.UpdatedAt,
	}
}

func rowToBudgetItem(r budgetItemRow) *models.BudgetItem {
	return &models.BudgetItem{
		ID:       r.ID,
		BudgetID: r.BudgetID,
		Title:    r.Title,
		Amount:   r.Amount,
		Position: r.Position,
		SyncMeta: models.SyncMeta{Synced: true, UpdatedAt: r.UpdatedAt},
	}
}
