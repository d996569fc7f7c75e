package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
)

func (a *App) ListContacts(ctx context.Context) error {
	list, err := a.contacts.List(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(list) == 0 {
		printlnFn("No contacts yet.")
		return nil
	}
	for _, c := range list {
		marker := " "
		if !c.Synced {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s  %s", marker, c.ID, c.Name, c.Email))
	}
	return nil
}

func (a *App) AddContact(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Contact name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email (optional)", os.Stdout)
	if err != nil {
		return err
	}

	c := &models.Contact{Name: name, Email: email}
	if err := a.contacts.Create(ctx, c); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Added contact", c.ID)
	return nil
}

func (a *App) DeleteContact(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Contact id", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.contacts.Delete(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Deleted contact", id)
	return nil
}
