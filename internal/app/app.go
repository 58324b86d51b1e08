// Package app is the client-side application core of FreelancePay.
//
// An App holds the session, the last full fetch of clients, invoices and
// stats, and the local view filters. Every mutation goes to the API through a
// Gateway, is followed by a full refetch of the affected lists, and only then
// by a re-render of the projected views. Caches are never patched in place.
//
// An App is not safe for concurrent use: one flow runs at a time and each
// gateway call blocks that flow until it completes.
package app

import (
	"context"
	"log/slog"

	"github.com/mmynk/freelancepay/internal/models"
)

// Gateway is the remote API as seen by the application core.
type Gateway interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Stats(ctx context.Context) (models.Stats, error)

	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, in models.ClientInput) (int64, error)
	UpdateClient(ctx context.Context, id int64, in models.ClientInput) error
	DeleteClient(ctx context.Context, id int64) error

	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, in models.InvoiceInput) (int64, error)
	UpdateInvoice(ctx context.Context, id int64, in models.InvoiceUpdate) error
	SetInvoiceStatus(ctx context.Context, id int64, status models.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, id int64) error
}

// View renders what the application core hands it. It never calls back into
// the App.
type View interface {
	ShowLogin()
	ShowMain(user models.User)
	RenderClients(clients []models.Client)
	RenderInvoices(invoices []models.Invoice)
	RenderStats(stats models.Stats)
}

// Notifier shows the outcome of an operation to the user.
type Notifier interface {
	Notify(r Result)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Result)

func (f NotifierFunc) Notify(r Result) { f(r) }

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// State is everything the application core knows. Slices are the caches
// themselves and must be treated as read-only.
type State struct {
	User     *models.User
	Clients  []models.Client
	Invoices []models.Invoice
	Stats    models.Stats
	Search   string
	Filter   models.StatusFilter
}

// App is the application core.
type App struct {
	gw       Gateway
	view     View
	notifier Notifier
	confirm  Confirmer
	logger   *slog.Logger

	state    State
	handlers map[Action]handler
	// rejected is set when the server refused the session and cleared when
	// a new one is established.
	rejected bool
}

// Option configures an App.
type Option func(*App)

// WithView sets the view that receives renders.
func WithView(v View) Option {
	return func(a *App) { a.view = v }
}

// WithNotifier sets the notification component.
func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithConfirmer sets how destructive actions are confirmed. Without one,
// every confirmation is declined.
func WithConfirmer(c Confirmer) Option {
	return func(a *App) { a.confirm = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New creates an unauthenticated App.
func New(gw Gateway, opts ...Option) *App {
	a := &App{
		gw:       gw,
		view:     nopView{},
		notifier: NotifierFunc(func(Result) {}),
		confirm:  ConfirmFunc(func(string) bool { return false }),
		logger:   slog.Default(),
		state:    State{Filter: models.FilterAll},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.handlers = a.buildHandlers()
	return a
}

// State returns a snapshot of the current state.
func (a *App) State() State { return a.state }

// Authenticated reports whether a session is established.
func (a *App) Authenticated() bool { return a.state.User != nil }

// SessionRejected reports whether the server answered unauthorized since the
// last session was established. Callers holding the token elsewhere should
// drop it.
func (a *App) SessionRejected() bool { return a.rejected }

// User returns the session's user, or nil.
func (a *App) User() *models.User { return a.state.User }

// VisibleClients projects the client cache through the current search term.
func (a *App) VisibleClients() []models.Client {
	return ProjectClients(a.state.Clients, a.state.Search)
}

// VisibleInvoices projects the invoice cache through the current status filter.
func (a *App) VisibleInvoices() []models.Invoice {
	return ProjectInvoices(a.state.Invoices, a.state.Filter)
}

type nopView struct{}

func (nopView) ShowLogin() {}
func (nopView) ShowMain(models.User) {}
func (nopView) RenderClients([]models.Client) {}
func (nopView) RenderInvoices([]models.Invoice) {}
func (nopView) RenderStats(models.Stats) {}
