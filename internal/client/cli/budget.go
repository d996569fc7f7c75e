package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

func (a *App) ListBudgets(ctx context.Context) error {
	list, err := a.budgets.List(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(list) == 0 {
		printlnFn("No budgets yet.")
		return nil
	}
	for _, b := range list {
		marker := " "
		if !b.Synced {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s  total %s", marker, b.ID, b.Title, b.TotalBudget.StringFixed(2)))
		for _, item := range b.Items {
			printlnFn(fmt.Sprintf("    %s  %s  %s", item.ID, item.Title, item.Amount.StringFixed(2)))
		}
	}
	return nil
}

func (a *App) AddBudget(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Budget title", os.Stdout)
	if err != nil {
		return err
	}
	total, err := GetAmount(a.reader, "Total amount", os.Stdout)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)

	b := &models.Budget{
		Title:       title,
		TotalBudget: total,
		PeriodStart: start.UnixMilli(),
		PeriodEnd:   end.UnixMilli(),
	}

	// optional line items, empty title finishes
	for {
		itemTitle, err := GetSimpleText(a.reader, "Item title (empty to finish)", os.Stdout)
		if err != nil || itemTitle == "" {
			break
		}
		amount, err := GetAmount(a.reader, "Item amount", os.Stdout)
		if err != nil {
			printlnFn("Error:", err.Error())
			continue
		}
		b.Items = append(b.Items, &models.BudgetItem{
			Title:    itemTitle,
			Amount:   amount,
			Position: len(b.Items),
		})
	}

	if err := a.budgets.Create(ctx, b); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Added budget", b.ID)
	return nil
}

func (a *App) DeleteBudget(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Budget id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.budgets.Delete(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Deleted budget", id)
	return nil
}
