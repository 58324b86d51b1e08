package app

import (
	"context"
	"fmt"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// Action identifies a user operation.
type Action int

const (
	ActionNone Action = iota
	ActionLogin
	ActionRegister
	ActionLogout
	ActionRefresh
	ActionSearchClients
	ActionFilterInvoices
	ActionCreateClient
	ActionUpdateClient
	ActionDeleteClient
	ActionCreateInvoice
	ActionUpdateInvoice
	ActionMarkPaid
	ActionMarkUnpaid
	ActionDeleteInvoice
)

var actionNames = map[Action]string{
	ActionNone:           "none",
	ActionLogin:          "login",
	ActionRegister:       "register",
	ActionLogout:         "logout",
	ActionRefresh:        "refresh",
	ActionSearchClients:  "search-clients",
	ActionFilterInvoices: "filter-invoices",
	ActionCreateClient:   "create-client",
	ActionUpdateClient:   "update-client",
	ActionDeleteClient:   "delete-client",
	ActionCreateInvoice:  "create-invoice",
	ActionUpdateInvoice:  "update-invoice",
	ActionMarkPaid:       "mark-paid",
	ActionMarkUnpaid:     "mark-unpaid",
	ActionDeleteInvoice:  "delete-invoice",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction looks an action up by name.
func ParseAction(name string) (Action, error) {
	for a, s := range actionNames {
		if s == name && a != ActionNone {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// Command is one user intent. Only the fields the action needs are read.
type Command struct {
	Action      Action
	ID          int64
	Term        string
	Filter      models.StatusFilter
	Credentials Credentials
	Client      models.ClientInput
	Invoice     InvoiceForm
}

type handler func(ctx context.Context, cmd Command) Result

func (a *App) buildHandlers() map[Action]handler {
	return map[Action]handler{
		ActionLogin: func(ctx context.Context, c Command) Result {
			return a.Login(ctx, c.Credentials.Email, c.Credentials.Password)
		},
		ActionRegister: func(ctx context.Context, c Command) Result {
			return a.Register(ctx, c.Credentials.Name, c.Credentials.Email, c.Credentials.Password)
		},
		ActionLogout: func(ctx context.Context, _ Command) Result {
			return a.Logout(ctx)
		},
		ActionRefresh: func(ctx context.Context, _ Command) Result {
			return a.Refresh(ctx)
		},
		ActionSearchClients: func(_ context.Context, c Command) Result {
			return a.SearchClients(c.Term)
		},
		ActionFilterInvoices: func(_ context.Context, c Command) Result {
			return a.FilterInvoices(c.Filter)
		},
		ActionCreateClient: func(ctx context.Context, c Command) Result {
			return a.CreateClient(ctx, c.Client)
		},
		ActionUpdateClient: func(ctx context.Context, c Command) Result {
			return a.UpdateClient(ctx, c.ID, c.Client)
		},
		ActionDeleteClient: func(ctx context.Context, c Command) Result {
			return a.DeleteClient(ctx, c.ID)
		},
		ActionCreateInvoice: func(ctx context.Context, c Command) Result {
			return a.CreateInvoice(ctx, c.Invoice)
		},
		ActionUpdateInvoice: func(ctx context.Context, c Command) Result {
			return a.UpdateInvoice(ctx, c.ID, c.Invoice)
		},
		ActionMarkPaid: func(ctx context.Context, c Command) Result {
			return a.SetInvoiceStatus(ctx, c.ID, models.StatusPaid)
		},
		ActionMarkUnpaid: func(ctx context.Context, c Command) Result {
			return a.SetInvoiceStatus(ctx, c.ID, models.StatusUnpaid)
		},
		ActionDeleteInvoice: func(ctx context.Context, c Command) Result {
			return a.DeleteInvoice(ctx, c.ID)
		},
	}
}

// Dispatch routes a command to its operation.
func (a *App) Dispatch(ctx context.Context, cmd Command) Result {
	h, ok := a.handlers[cmd.Action]
	if !ok {
		return a.fail(cmd.Action, "", failure.Localf("Unsupported action %s.", cmd.Action))
	}
	a.logger.Debug("Dispatching", "action", cmd.Action)
	return h(ctx, cmd)
}
