package app

import (
	"strings"

	"github.com/mmynk/freelancepay/internal/models"
)

// ProjectClients returns the clients whose name or email contains term,
// ignoring case, in cache order. An empty term returns every client. The
// result never aliases the cache.
func ProjectClients(clients []models.Client, term string) []models.Client {
	out := make([]models.Client, 0, len(clients))
	if term == "" {
		return append(out, clients...)
	}
	needle := strings.ToLower(term)
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			out = append(out, c)
		}
	}
	return out
}

// ProjectInvoices returns the invoices passing filter, in cache order.
// FilterAll returns every invoice. The result never aliases the cache.
func ProjectInvoices(invoices []models.Invoice, filter models.StatusFilter) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if filter.Matches(inv.Status) {
			out = append(out, inv)
		}
	}
	return out
}

// SearchClients changes the search term and re-renders the client view.
// No request is made.
func (a *App) SearchClients(term string) Result {
	a.state.Search = term
	a.renderClients()
	return Result{Action: ActionSearchClients, Outcome: Success}
}

// FilterInvoices changes the status filter and re-renders the invoice view.
// No request is made.
func (a *App) FilterInvoices(filter models.StatusFilter) Result {
	if !filter.Valid() {
		return a.fail(ActionFilterInvoices, "", errInvalidFilter(filter))
	}
	a.state.Filter = filter
	a.renderInvoices()
	return Result{Action: ActionFilterInvoices, Outcome: Success}
}

func (a *App) renderClients() {
	a.view.RenderClients(a.VisibleClients())
}

func (a *App) renderInvoices() {
	a.view.RenderInvoices(a.VisibleInvoices())
}
