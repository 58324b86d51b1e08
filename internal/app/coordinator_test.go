package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// loggedIn returns an authenticated app whose call log has been reset.
func loggedIn(t *testing.T, confirm bool) (*App, *fakeGateway, *recorder) {
	t.Helper()
	a, gw, rec := newTestApp(confirm)
	gw.clients = append(gw.clients, sampleClients...)
	gw.invoices = append(gw.invoices, sampleInvoices...)
	require.Equal(t, Authenticated, a.CheckSession(t.Context()))
	gw.calls = nil
	rec.results = nil
	return a, gw, rec
}

func TestCreateClientRefetches(t *testing.T) {
	a, gw, rec := loggedIn(t, true)

	r := a.CreateClient(t.Context(), models.ClientInput{Name: " Delta Ltd ", Email: "ops@delta.test"})

	require.True(t, r.OK())
	assert.Equal(t, "Client added successfully!", r.Message)
	assert.Equal(t, []string{
		"create-client",
		"clients", "render:clients",
		"stats", "render:stats",
		"notify:success",
	}, gw.calls)

	// The cache is exactly what the server returned, including its id.
	assert.Equal(t, gw.clients, a.State().Clients)
	last := a.State().Clients[len(a.State().Clients)-1]
	assert.Equal(t, "Delta Ltd", last.Name)
	assert.Equal(t, int64(101), last.ID)
	assert.Equal(t, 4, a.State().Stats.TotalClients)
	assert.Len(t, rec.clients, 4)
}

func TestCreateClientRendersThroughSearch(t *testing.T) {
	a, _, rec := loggedIn(t, true)
	a.SearchClients("acme")

	r := a.CreateClient(t.Context(), models.ClientInput{Name: "Acme Two", Email: "two@acme.test"})

	require.True(t, r.OK())
	assert.Len(t, a.State().Clients, 4)
	assert.Len(t, rec.clients, 3, "the new client passes the active search")
}

func TestCreateClientValidation(t *testing.T) {
	tests := []struct {
		name string
		in   models.ClientInput
		msg  string
	}{
		{"missing name", models.ClientInput{Email: "a@b.test"}, "Name and email are required."},
		{"blank email", models.ClientInput{Name: "A", Email: "  "}, "Name and email are required."},
		{"bad email", models.ClientInput{Name: "A", Email: "not-an-email"}, "Please enter a valid email address."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gw, _ := loggedIn(t, true)
			r := a.CreateClient(t.Context(), tt.in)
			assert.Equal(t, failure.LocalValidation, r.Kind())
			assert.Equal(t, tt.msg, r.Message)
			assert.Equal(t, []string{"notify:failure"}, gw.calls)
		})
	}
}

func TestMutationFailureLeavesCachesUntouched(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"validation", failure.FromStatus(400, "Email already exists"), "Failed to add client: Email already exists"},
		{"server", failure.FromStatus(500, ""), "Failed to add client."},
		{"network", failure.New(failure.Network, "", errors.New("refused")), "Failed to add client. " + msgNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gw, _ := loggedIn(t, true)
			before := a.State()
			gw.fail["create-client"] = tt.err

			r := a.CreateClient(t.Context(), models.ClientInput{Name: "Delta", Email: "d@delta.test"})

			assert.Equal(t, Failure, r.Outcome)
			assert.Equal(t, tt.msg, r.Message)
			assert.Equal(t, []string{"create-client", "notify:failure"}, gw.calls)
			assert.Equal(t, before, a.State())
			assert.True(t, a.Authenticated())
		})
	}
}

func TestUnauthorizedEndsSession(t *testing.T) {
	a, gw, rec := loggedIn(t, true)
	gw.fail["set-status"] = failure.FromStatus(401, "Token expired")

	r := a.SetInvoiceStatus(t.Context(), 10, models.StatusPaid)

	assert.Equal(t, failure.Unauthorized, r.Kind())
	assert.Equal(t, "Session expired. Please log in again.", r.Message)
	assert.False(t, a.Authenticated())
	assert.True(t, a.SessionRejected())
	assert.Empty(t, a.State().Clients)
	assert.Empty(t, a.State().Invoices)
	assert.False(t, rec.main)
	assert.Equal(t, []string{"set-status", "view:login", "notify:failure"}, gw.calls)
}

func TestUnauthorizedDuringRefreshStopsRefetching(t *testing.T) {
	a, gw, _ := loggedIn(t, true)
	gw.fail["clients"] = failure.FromStatus(401, "")

	r := a.DeleteClient(t.Context(), 2)

	assert.True(t, r.OK(), "the delete itself went through")
	assert.False(t, a.Authenticated())
	assert.True(t, a.SessionRejected())
	assert.NotContains(t, gw.calls, "invoices")
	assert.NotContains(t, gw.calls, "stats")
}

func TestUpdateClientRefetchesInvoices(t *testing.T) {
	a, gw, rec := loggedIn(t, true)

	r := a.UpdateClient(t.Context(), 1, models.ClientInput{Name: "Acme Group", Email: "billing@acme.test"})

	require.True(t, r.OK())
	assert.Equal(t, "Client updated successfully!", r.Message)
	assert.Equal(t, []string{
		"update-client",
		"clients", "render:clients",
		"invoices", "render:invoices",
		"notify:success",
	}, gw.calls)
	assert.Equal(t, "Acme Group", rec.invoices[0].ClientName)
}

func TestDeleteClient(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		a, gw, rec := loggedIn(t, false)
		r := a.DeleteClient(t.Context(), 1)
		assert.Equal(t, Declined, r.Outcome)
		assert.Empty(t, gw.calls)
		assert.Empty(t, rec.results)
		assert.Len(t, a.State().Clients, 3)
	})

	t.Run("confirmed refetches everything in order", func(t *testing.T) {
		a, gw, _ := loggedIn(t, true)
		r := a.DeleteClient(t.Context(), 1)
		require.True(t, r.OK())
		assert.Equal(t, "Client deleted!", r.Message)
		assert.Equal(t, []string{
			"delete-client",
			"clients", "render:clients",
			"invoices", "render:invoices",
			"stats", "render:stats",
			"notify:success",
		}, gw.calls)
		assert.Len(t, a.State().Clients, 2)
		assert.Len(t, a.State().Invoices, 1, "the server removed the client's invoices")
	})
}

func TestCreateInvoice(t *testing.T) {
	t.Run("preset description", func(t *testing.T) {
		a, gw, _ := loggedIn(t, true)
		r := a.CreateInvoice(t.Context(), InvoiceForm{
			ClientID: 2, Amount: amount(1200), Description: "Consulting", DueDate: "2026-11-30",
		})
		require.True(t, r.OK())
		assert.Equal(t, "Invoice created!", r.Message)
		assert.Equal(t, []string{
			"create-invoice",
			"invoices", "render:invoices",
			"stats", "render:stats",
			"notify:success",
		}, gw.calls)
		created := a.State().Invoices[len(a.State().Invoices)-1]
		assert.Equal(t, models.StatusUnpaid, created.Status)
		assert.Equal(t, "2026-11-30", created.DueDate.String())
	})

	t.Run("custom description uses the free text", func(t *testing.T) {
		a, gw, _ := loggedIn(t, true)
		r := a.CreateInvoice(t.Context(), InvoiceForm{
			ClientID: 2, Amount: amount(50), Description: models.CustomDescription, CustomDescription: "Logo refresh",
		})
		require.True(t, r.OK())
		assert.Equal(t, "Logo refresh", gw.invoices[len(gw.invoices)-1].Description)
	})

	tests := []struct {
		name string
		form InvoiceForm
		msg  string
	}{
		{"custom without text", InvoiceForm{ClientID: 2, Amount: amount(50), Description: models.CustomDescription}, "Please enter a custom description."},
		{"missing client", InvoiceForm{Amount: amount(50)}, "Client and amount are required."},
		{"missing amount", InvoiceForm{ClientID: 2}, "Client and amount are required."},
		{"negative amount", InvoiceForm{ClientID: 2, Amount: amount(-1)}, "Amount must be non-negative."},
		{"bad due date", InvoiceForm{ClientID: 2, Amount: amount(1), DueDate: "30/11/2026"}, "Due date must be YYYY-MM-DD."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gw, _ := loggedIn(t, true)
			r := a.CreateInvoice(t.Context(), tt.form)
			assert.Equal(t, failure.LocalValidation, r.Kind())
			assert.Equal(t, tt.msg, r.Message)
			assert.NotContains(t, gw.calls, "create-invoice")
		})
	}
}

func TestUpdateInvoice(t *testing.T) {
	a, gw, _ := loggedIn(t, true)

	r := a.UpdateInvoice(t.Context(), 12, InvoiceForm{ClientID: 99, Amount: amount(150), Description: "Consulting"})

	require.True(t, r.OK())
	assert.Equal(t, "Invoice updated successfully!", r.Message)
	for _, inv := range a.State().Invoices {
		if inv.ID == 12 {
			assert.Equal(t, 150.0, inv.Amount)
			assert.Equal(t, int64(1), inv.ClientID, "the owner never changes")
		}
	}
	assert.Equal(t, "update-invoice", gw.calls[0])
}

func TestSetInvoiceStatus(t *testing.T) {
	a, _, rec := loggedIn(t, true)

	r := a.SetInvoiceStatus(t.Context(), 10, models.StatusPaid)
	require.True(t, r.OK())
	assert.Equal(t, ActionMarkPaid, r.Action)
	assert.Equal(t, "Invoice marked as paid!", r.Message)
	assert.Equal(t, 750.0, a.State().Stats.PaidTotal)
	assert.Equal(t, 100.0, rec.stats.UnpaidTotal)

	r = a.SetInvoiceStatus(t.Context(), 10, models.StatusUnpaid)
	require.True(t, r.OK())
	assert.Equal(t, ActionMarkUnpaid, r.Action)
	assert.Equal(t, "Invoice marked as unpaid!", r.Message)

	r = a.SetInvoiceStatus(t.Context(), 10, "void")
	assert.Equal(t, failure.LocalValidation, r.Kind())
}

func TestPaidFilterAfterMarkPaid(t *testing.T) {
	a, _, rec := loggedIn(t, true)
	a.FilterInvoices(models.FilterPaid)
	require.Len(t, rec.invoices, 1)

	a.SetInvoiceStatus(t.Context(), 12, models.StatusPaid)

	require.Len(t, rec.invoices, 2)
	for _, inv := range rec.invoices {
		assert.Equal(t, models.StatusPaid, inv.Status)
	}
}

func TestDeleteInvoice(t *testing.T) {
	a, gw, _ := loggedIn(t, false)
	r := a.DeleteInvoice(t.Context(), 10)
	assert.Equal(t, Declined, r.Outcome)
	assert.Empty(t, gw.calls)

	a.confirm = ConfirmFunc(func(prompt string) bool {
		assert.Equal(t, "Delete this invoice?", prompt)
		return true
	})
	r = a.DeleteInvoice(t.Context(), 10)
	require.True(t, r.OK())
	assert.Equal(t, "Invoice deleted!", r.Message)
	assert.Len(t, a.State().Invoices, 2)
}

func TestRefreshFailureAfterMutationIsReportedSeparately(t *testing.T) {
	a, gw, rec := loggedIn(t, true)
	gw.fail["stats"] = failure.FromStatus(500, "")

	r := a.CreateInvoice(t.Context(), InvoiceForm{ClientID: 1, Amount: amount(10)})

	assert.True(t, r.OK())
	require.Len(t, rec.results, 2)
	assert.Equal(t, ActionRefresh, rec.results[0].Action)
	assert.Equal(t, Failure, rec.results[0].Outcome)
	assert.True(t, a.Authenticated())
	assert.Len(t, a.State().Invoices, 4)
}
