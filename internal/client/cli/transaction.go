package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

func (a *App) ListTransactions(ctx context.Context) error {
	list, err := a.transactions.List(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(list) == 0 {
		printlnFn("No transactions yet.")
		return nil
	}
	for _, t := range list {
		marker := " "
		if !t.Synced {
			marker = "*"
		}
		sign := "+"
		if t.Kind == models.KindExpense {
			sign = "-"
		}
		when := time.UnixMilli(t.OccurredAt).Format("2006-01-02")
		printlnFn(fmt.Sprintf("%s %s  %s  %s%s  %s", marker, t.ID, when, sign, t.Amount.StringFixed(2), t.Title))
	}
	return nil
}

func (a *App) AddTransaction(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "Amount", os.Stdout)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	kindRaw, err := GetSimpleText(a.reader, "Kind (income/expense)", os.Stdout)
	if err != nil {
		return err
	}
	kind := models.TransactionKind(kindRaw)
	if kind != models.KindIncome && kind != models.KindExpense {
		printlnFn("Error: kind must be income or expense")
		return fmt.Errorf("invalid transaction kind %q", kindRaw)
	}

	t := &models.Transaction{
		Title:      title,
		Amount:     amount,
		Kind:       kind,
		OccurredAt: time.Now().UnixMilli(),
	}
	if err := a.transactions.Create(ctx, t); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Added transaction", t.ID)
	return nil
}

func (a *App) DeleteTransaction(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Transaction id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.transactions.Delete(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Deleted transaction", id)
	return nil
}
