package render

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mmynk/freelancepay/internal/app"
	"github.com/mmynk/freelancepay/internal/calculator"
	"github.com/mmynk/freelancepay/internal/models"
)

// View prints every render the application core asks for, so each refetch
// redraws the affected list. A muted View prints nothing.
type View struct {
	r      *Renderer
	logger *slog.Logger
	muted  bool
}

var _ app.View = (*View)(nil)

// NewView creates a View printing through r.
func NewView(r *Renderer, logger *slog.Logger) *View {
	return &View{r: r, logger: logger}
}

// SetMuted turns printing off or back on.
func (v *View) SetMuted(muted bool) { v.muted = muted }

func (v *View) print(what string, fn func() error) {
	if v.muted {
		return
	}
	v.report(what, fn())
}

func (v *View) report(what string, err error) {
	if err != nil {
		v.logger.Warn("Failed to render", "what", what, "error", err)
	}
}

func (v *View) ShowLogin() {
	v.print("login", func() error {
		return v.r.Line("Not logged in. Use login or register to start a session.")
	})
}

func (v *View) ShowMain(user models.User) {
	v.print("main", func() error {
		return v.r.Line("Welcome back, %s!", user.FirstName())
	})
}

func (v *View) RenderClients(clients []models.Client) {
	v.print("clients", func() error { return v.r.Clients(clients) })
}

func (v *View) RenderInvoices(invoices []models.Invoice) {
	v.print("invoices", func() error { return v.r.Invoices(invoices) })
}

func (v *View) RenderStats(stats models.Stats) {
	v.print("stats", func() error { return v.r.Summary(calculator.Summarize(stats)) })
}

// Notifier prints operation outcomes: successes to out, failures to errOut.
// Silent successes print nothing.
type Notifier struct {
	out    io.Writer
	errOut io.Writer
}

var _ app.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier.
func NewNotifier(out, errOut io.Writer) *Notifier {
	return &Notifier{out: out, errOut: errOut}
}

func (n *Notifier) Notify(res app.Result) {
	switch res.Outcome {
	case app.Success:
		if res.Message != "" {
			fmt.Fprintln(n.out, res.Message)
		}
	case app.Failure:
		fmt.Fprintln(n.errOut, "Error:", res.Message)
	case app.Declined:
		fmt.Fprintln(n.out, "Cancelled.")
	}
}
