package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// fakeGateway is an in-memory server. Every call is appended to calls so
// tests can assert ordering. Setting fail[name] makes that call return the
// error.
type fakeGateway struct {
	user     *models.User
	clients  []models.Client
	invoices []models.Invoice
	nextID   int64

	fail  map[string]error
	calls []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		user:   &models.User{ID: 1, Name: "Jane Doe", Email: "jane@example.com"},
		nextID: 100,
		fail:   map[string]error{},
	}
}

func (g *fakeGateway) call(name string) error {
	g.calls = append(g.calls, name)
	return g.fail[name]
}

func (g *fakeGateway) Me(context.Context) (*models.User, error) {
	if err := g.call("me"); err != nil {
		return nil, err
	}
	if g.user == nil {
		return nil, failure.FromStatus(401, "Not authenticated")
	}
	u := *g.user
	return &u, nil
}

func (g *fakeGateway) Login(_ context.Context, email, password string) (*models.User, error) {
	if err := g.call("login"); err != nil {
		return nil, err
	}
	if email != "jane@example.com" || password != "secret" {
		return nil, failure.FromStatus(401, "Invalid email or password")
	}
	g.user = &models.User{ID: 1, Name: "Jane Doe", Email: email}
	return g.user, nil
}

func (g *fakeGateway) Register(_ context.Context, name, email, _ string) (*models.User, error) {
	if err := g.call("register"); err != nil {
		return nil, err
	}
	g.user = &models.User{ID: 2, Name: name, Email: email}
	return g.user, nil
}

func (g *fakeGateway) Logout(context.Context) error {
	if err := g.call("logout"); err != nil {
		return err
	}
	g.user = nil
	return nil
}

func (g *fakeGateway) Stats(context.Context) (models.Stats, error) {
	if err := g.call("stats"); err != nil {
		return models.Stats{}, err
	}
	s := models.Stats{TotalClients: len(g.clients), TotalInvoices: len(g.invoices)}
	for _, inv := range g.invoices {
		if inv.Status == models.StatusPaid {
			s.PaidTotal += inv.Amount
		} else {
			s.UnpaidTotal += inv.Amount
		}
	}
	return s, nil
}

func (g *fakeGateway) ListClients(context.Context) ([]models.Client, error) {
	if err := g.call("clients"); err != nil {
		return nil, err
	}
	return append([]models.Client(nil), g.clients...), nil
}

func (g *fakeGateway) CreateClient(_ context.Context, in models.ClientInput) (int64, error) {
	if err := g.call("create-client"); err != nil {
		return 0, err
	}
	g.nextID++
	g.clients = append(g.clients, models.Client{ID: g.nextID, Name: in.Name, Email: in.Email, Phone: in.Phone})
	return g.nextID, nil
}

func (g *fakeGateway) UpdateClient(_ context.Context, id int64, in models.ClientInput) error {
	if err := g.call("update-client"); err != nil {
		return err
	}
	for i := range g.clients {
		if g.clients[i].ID == id {
			g.clients[i].Name, g.clients[i].Email, g.clients[i].Phone = in.Name, in.Email, in.Phone
			for j := range g.invoices {
				if g.invoices[j].ClientID == id {
					g.invoices[j].ClientName = in.Name
				}
			}
			return nil
		}
	}
	return failure.FromStatus(404, "Client not found")
}

func (g *fakeGateway) DeleteClient(_ context.Context, id int64) error {
	if err := g.call("delete-client"); err != nil {
		return err
	}
	kept := g.clients[:0]
	for _, c := range g.clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	g.clients = kept
	invs := g.invoices[:0]
	for _, inv := range g.invoices {
		if inv.ClientID != id {
			invs = append(invs, inv)
		}
	}
	g.invoices = invs
	return nil
}

func (g *fakeGateway) ListInvoices(context.Context) ([]models.Invoice, error) {
	if err := g.call("invoices"); err != nil {
		return nil, err
	}
	return append([]models.Invoice(nil), g.invoices...), nil
}

func (g *fakeGateway) CreateInvoice(_ context.Context, in models.InvoiceInput) (int64, error) {
	if err := g.call("create-invoice"); err != nil {
		return 0, err
	}
	g.nextID++
	g.invoices = append(g.invoices, models.Invoice{
		ID: g.nextID, ClientID: in.ClientID, Amount: *in.Amount,
		Description: in.Description, DueDate: in.DueDate, Status: models.StatusUnpaid,
	})
	return g.nextID, nil
}

func (g *fakeGateway) UpdateInvoice(_ context.Context, id int64, in models.InvoiceUpdate) error {
	if err := g.call("update-invoice"); err != nil {
		return err
	}
	for i := range g.invoices {
		if g.invoices[i].ID == id {
			g.invoices[i].Amount = *in.Amount
			g.invoices[i].Description = in.Description
			g.invoices[i].DueDate = in.DueDate
			return nil
		}
	}
	return failure.FromStatus(404, "Invoice not found")
}

func (g *fakeGateway) SetInvoiceStatus(_ context.Context, id int64, status models.InvoiceStatus) error {
	if err := g.call("set-status"); err != nil {
		return err
	}
	for i := range g.invoices {
		if g.invoices[i].ID == id {
			g.invoices[i].Status = status
			return nil
		}
	}
	return failure.FromStatus(404, "Invoice not found")
}

func (g *fakeGateway) DeleteInvoice(_ context.Context, id int64) error {
	if err := g.call("delete-invoice"); err != nil {
		return err
	}
	kept := g.invoices[:0]
	for _, inv := range g.invoices {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	g.invoices = kept
	return nil
}

// recorder is a View and Notifier that records everything in one stream,
// so gateway calls and renders can be ordered against each other when it
// shares the gateway's call log.
type recorder struct {
	log      *[]string
	clients  []models.Client
	invoices []models.Invoice
	stats    models.Stats
	results  []Result
	main     bool
}

func (r *recorder) add(s string) { *r.log = append(*r.log, s) }

func (r *recorder) ShowLogin() {
	r.main = false
	r.add("view:login")
}

func (r *recorder) ShowMain(models.User) {
	r.main = true
	r.add("view:main")
}

func (r *recorder) RenderStats(s models.Stats) {
	r.stats = s
	r.add("render:stats")
}

func (r *recorder) RenderClients(c []models.Client) {
	r.clients = c
	r.add("render:clients")
}

func (r *recorder) RenderInvoices(inv []models.Invoice) {
	r.invoices = inv
	r.add("render:invoices")
}

func (r *recorder) Notify(res Result) {
	r.results = append(r.results, res)
	r.add(fmt.Sprintf("notify:%s", res.Outcome))
}

func (r *recorder) last() Result {
	if len(r.results) == 0 {
		return Result{}
	}
	return r.results[len(r.results)-1]
}

// newTestApp wires an App to a fake gateway and a recorder sharing one log.
func newTestApp(confirm bool) (*App, *fakeGateway, *recorder) {
	gw := newFakeGateway()
	rec := &recorder{log: &gw.calls}
	a := New(gw,
		WithView(rec),
		WithNotifier(rec),
		WithConfirmer(ConfirmFunc(func(string) bool { return confirm })),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return a, gw, rec
}

func amount(v float64) *float64 { return &v }
