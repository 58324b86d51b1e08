package app

import (
	"context"
	"fmt"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// mutate runs one write against the gateway. On success it refetches the
// caches in set, which re-renders their views, and then notifies. On failure
// it notifies and leaves every cache untouched.
func (a *App) mutate(ctx context.Context, action Action, okMsg, failMsg string, set refreshSet, call func(context.Context) error) Result {
	if r, ok := a.requireSession(action); !ok {
		return r
	}
	if err := call(ctx); err != nil {
		return a.fail(action, failMsg, err)
	}
	a.refresh(ctx, set)
	return a.succeed(action, okMsg)
}

// CreateClient validates and creates a client.
func (a *App) CreateClient(ctx context.Context, in models.ClientInput) Result {
	const failMsg = "Failed to add client."
	in, err := validateClient(in)
	if err != nil {
		return a.fail(ActionCreateClient, failMsg, err)
	}
	return a.mutate(ctx, ActionCreateClient, "Client added successfully!", failMsg, refreshClients|refreshStats,
		func(ctx context.Context) error {
			_, err := a.gw.CreateClient(ctx, in)
			return err
		})
}

// UpdateClient validates and updates a client. Invoices are refetched too
// because they carry the client's name.
func (a *App) UpdateClient(ctx context.Context, id int64, in models.ClientInput) Result {
	const failMsg = "Failed to update client."
	if err := validateID(id, "client"); err != nil {
		return a.fail(ActionUpdateClient, failMsg, err)
	}
	in, err := validateClient(in)
	if err != nil {
		return a.fail(ActionUpdateClient, failMsg, err)
	}
	return a.mutate(ctx, ActionUpdateClient, "Client updated successfully!", failMsg, refreshClients|refreshInvoices,
		func(ctx context.Context) error { return a.gw.UpdateClient(ctx, id, in) })
}

// DeleteClient deletes a client after confirmation. The server deletes the
// client's invoices, so both lists are refetched.
func (a *App) DeleteClient(ctx context.Context, id int64) Result {
	const failMsg = "Failed to delete client."
	if err := validateID(id, "client"); err != nil {
		return a.fail(ActionDeleteClient, failMsg, err)
	}
	if !a.confirm.Confirm("Delete this client and all their invoices?") {
		return declined(ActionDeleteClient)
	}
	return a.mutate(ctx, ActionDeleteClient, "Client deleted!", failMsg, refreshAll,
		func(ctx context.Context) error { return a.gw.DeleteClient(ctx, id) })
}

// CreateInvoice validates the form and creates an unpaid invoice. A Custom
// description without text never reaches the server.
func (a *App) CreateInvoice(ctx context.Context, form InvoiceForm) Result {
	const failMsg = "Failed to create invoice."
	in, err := form.toInput()
	if err != nil {
		return a.fail(ActionCreateInvoice, failMsg, err)
	}
	return a.mutate(ctx, ActionCreateInvoice, "Invoice created!", failMsg, refreshInvoices|refreshStats,
		func(ctx context.Context) error {
			_, err := a.gw.CreateInvoice(ctx, in)
			return err
		})
}

// UpdateInvoice validates the form and updates amount, description and due
// date. The owning client is never sent.
func (a *App) UpdateInvoice(ctx context.Context, id int64, form InvoiceForm) Result {
	const failMsg = "Failed to update invoice."
	if err := validateID(id, "invoice"); err != nil {
		return a.fail(ActionUpdateInvoice, failMsg, err)
	}
	upd, err := form.toUpdate()
	if err != nil {
		return a.fail(ActionUpdateInvoice, failMsg, err)
	}
	return a.mutate(ctx, ActionUpdateInvoice, "Invoice updated successfully!", failMsg, refreshInvoices|refreshStats,
		func(ctx context.Context) error { return a.gw.UpdateInvoice(ctx, id, upd) })
}

// SetInvoiceStatus marks an invoice paid or unpaid.
func (a *App) SetInvoiceStatus(ctx context.Context, id int64, status models.InvoiceStatus) Result {
	action := ActionMarkPaid
	if status == models.StatusUnpaid {
		action = ActionMarkUnpaid
	}
	const failMsg = "Failed to update invoice."
	if err := validateID(id, "invoice"); err != nil {
		return a.fail(action, failMsg, err)
	}
	if _, err := models.ParseInvoiceStatus(string(status)); err != nil {
		return a.fail(action, failMsg, failure.Localf("Unknown invoice status %q.", string(status)))
	}
	return a.mutate(ctx, action, fmt.Sprintf("Invoice marked as %s!", status), failMsg, refreshInvoices|refreshStats,
		func(ctx context.Context) error { return a.gw.SetInvoiceStatus(ctx, id, status) })
}

// DeleteInvoice deletes an invoice after confirmation.
func (a *App) DeleteInvoice(ctx context.Context, id int64) Result {
	const failMsg = "Failed to delete invoice."
	if err := validateID(id, "invoice"); err != nil {
		return a.fail(ActionDeleteInvoice, failMsg, err)
	}
	if !a.confirm.Confirm("Delete this invoice?") {
		return declined(ActionDeleteInvoice)
	}
	return a.mutate(ctx, ActionDeleteInvoice, "Invoice deleted!", failMsg, refreshInvoices|refreshStats,
		func(ctx context.Context) error { return a.gw.DeleteInvoice(ctx, id) })
}
