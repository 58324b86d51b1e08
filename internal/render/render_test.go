package render

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/freelancepay/internal/app"
	"github.com/mmynk/freelancepay/internal/calculator"
	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

func newRenderer(t *testing.T, cfg Config) (*Renderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := New(&buf, cfg)
	require.NoError(t, err)
	return r, &buf
}

func TestMoney(t *testing.T) {
	tests := []struct {
		currency string
		amount   float64
		want     string
	}{
		{"KSh", 0, "KSh 0.00"},
		{"KSh", 1234, "KSh 1,234.00"},
		{"KSh", 1234567.5, "KSh 1,234,567.50"},
		{"USD", 99.99, "USD 99.99"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.currency, tt.amount))
		})
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "N/A", Date(time.Time{}))
	assert.Equal(t, "Mar 5, 2024", Date(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestClientsTable(t *testing.T) {
	r, buf := newRenderer(t, Config{})
	clients := []models.Client{
		{ID: 1, Name: "Acme", Email: "ops@acme.test", Phone: "0700", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Beta", Email: "hi@beta.test"},
	}
	require.NoError(t, r.Clients(clients))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "Jan 2, 2024")
	assert.Contains(t, lines[2], "Not provided")
	assert.Contains(t, lines[2], "N/A")
}

func TestEmptyLists(t *testing.T) {
	r, buf := newRenderer(t, Config{})
	require.NoError(t, r.Clients(nil))
	require.NoError(t, r.Invoices(nil))
	assert.Equal(t, "No clients found\nNo invoices found\n", buf.String())

	r, buf = newRenderer(t, Config{Format: FormatJSON})
	require.NoError(t, r.Clients(nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestInvoicesTable(t *testing.T) {
	r, buf := newRenderer(t, Config{Currency: "USD"})
	due, err := models.ParseDate("2024-07-01")
	require.NoError(t, err)
	invoices := []models.Invoice{
		{ID: 7, ClientName: "Acme", Amount: 1500, Status: models.StatusUnpaid, Description: "Consulting", DueDate: due},
		{ID: 8, ClientName: "Beta", Amount: 20, Status: models.StatusPaid},
	}
	require.NoError(t, r.Invoices(invoices))

	out := buf.String()
	assert.Contains(t, out, "USD 1,500.00")
	assert.Contains(t, out, "UNPAID")
	assert.Contains(t, out, "PAID")
	assert.Contains(t, out, "Jul 1, 2024")
	assert.Contains(t, out, "No description")
}

func TestSummary(t *testing.T) {
	r, buf := newRenderer(t, Config{})
	s := calculator.Summarize(models.Stats{TotalClients: 2, TotalInvoices: 2, PaidTotal: 150, UnpaidTotal: 50})
	require.NoError(t, r.Summary(s))

	out := buf.String()
	assert.Contains(t, out, "KSh 200.00")
	assert.Contains(t, out, "KSh 100.00")
	assert.Contains(t, out, "75%")
}

func TestJSONQuery(t *testing.T) {
	r, buf := newRenderer(t, Config{Query: "[?status=='unpaid'].id"})
	assert.Equal(t, FormatJSON, r.Format())

	invoices := []models.Invoice{
		{ID: 1, Status: models.StatusUnpaid},
		{ID: 2, Status: models.StatusPaid},
		{ID: 3, Status: models.StatusUnpaid},
	}
	require.NoError(t, r.Invoices(invoices))

	var ids []int64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ids))
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestBadQuery(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Config{Query: "[?"})
	assert.Error(t, err)
}

func TestLineIsSilentForJSON(t *testing.T) {
	r, buf := newRenderer(t, Config{Format: FormatJSON})
	require.NoError(t, r.Line("hello"))
	assert.Empty(t, buf.String())
}

func TestNotifier(t *testing.T) {
	var out, errOut bytes.Buffer
	n := NewNotifier(&out, &errOut)

	n.Notify(app.Result{Outcome: app.Success, Message: "Client added successfully!"})
	n.Notify(app.Result{Outcome: app.Success})
	n.Notify(app.Result{Outcome: app.Declined})
	n.Notify(app.Result{Outcome: app.Failure, Message: "Please log in first.", Err: failure.Localf("Please log in first.")})

	assert.Equal(t, "Client added successfully!\nCancelled.\n", out.String())
	assert.Equal(t, "Error: Please log in first.\n", errOut.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestViewLogsWriteErrors(t *testing.T) {
	r, err := New(failingWriter{}, Config{})
	require.NoError(t, err)

	var logs bytes.Buffer
	v := NewView(r, slog.New(slog.NewTextHandler(&logs, nil)))
	v.RenderClients([]models.Client{{ID: 1, Name: "Acme"}})
	assert.Contains(t, logs.String(), "Failed to render")
}

func TestViewMuted(t *testing.T) {
	r, buf := newRenderer(t, Config{})
	v := NewView(r, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	v.SetMuted(true)
	v.RenderInvoices(nil)
	v.ShowMain(models.User{Name: "Jane Doe"})
	assert.Empty(t, buf.String())

	v.SetMuted(false)
	v.ShowMain(models.User{Name: "Jane Doe"})
	v.RenderInvoices(nil)
	assert.Equal(t, "Welcome back, Jane!\nNo invoices found\n", buf.String())
}
