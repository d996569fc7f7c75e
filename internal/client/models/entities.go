package models

import "github.com/shopspring/decimal"

// TransactionKind classifies a monetary transaction.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Contact is a payee or payer the user tracks transactions against.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Note  string `json:"note,omitempty"`
	SyncMeta
}

func (c *Contact) EntityID() string { return c.ID }
func (c *Contact) Meta() *SyncMeta  { return &c.SyncMeta }

// Transaction is a single monetary movement. Amount is always positive;
// Kind carries the direction.
type Transaction struct {
	ID         string          `json:"id"`
	ContactID  *string         `json:"contactId,omitempty"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       TransactionKind `json:"kind"`
	OccurredAt int64           `json:"occurredAt"`
	Note       string          `json:"note,omitempty"`
	SyncMeta
}

func (t *Transaction) EntityID() string { return t.ID }
func (t *Transaction) Meta() *SyncMeta  { return &t.SyncMeta }

// Budget is a spending plan for a period. It owns an ordered collection of
// BudgetItems; each item carries its own sync metadata, and a synced Budget
// does not imply its items are synced.
type Budget struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	PeriodStart int64           `json:"periodStart"`
	PeriodEnd   int64           `json:"periodEnd"`
	SyncMeta
	Items []*BudgetItem `json:"items,omitempty"`
}

func (b *Budget) EntityID() string { return b.ID }
func (b *Budget) Meta() *SyncMeta  { return &b.SyncMeta }

// BudgetItem is a single line inside a Budget.
type BudgetItem struct {
	ID       string          `json:"id"`
	BudgetID string          `json:"budgetId"`
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Position int             `json:"position"`
	SyncMeta
}

func (i *BudgetItem) EntityID() string { return i.ID }
func (i *BudgetItem) Meta() *SyncMeta  { return &i.SyncMeta }
