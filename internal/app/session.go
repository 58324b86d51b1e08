package app

import (
	"context"
	"strings"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// SessionStatus is the answer of the session gate.
type SessionStatus int

const (
	Unauthenticated SessionStatus = iota
	Authenticated
)

func (s SessionStatus) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

var errNotLoggedIn = failure.Localf("Please log in first.")

// CheckSession asks the server who is logged in. When a user is found the
// main view is shown and stats, clients and invoices are loaded; otherwise
// all cached state is dropped and the login view is shown.
func (a *App) CheckSession(ctx context.Context) SessionStatus {
	user, err := a.gw.Me(ctx)
	if err != nil {
		if failure.Is(err, failure.Unauthorized) {
			a.rejected = true
		} else {
			a.logger.Warn("Session check failed", "error", err)
		}
		a.teardown()
		return Unauthenticated
	}

	a.state.User = user
	a.rejected = false
	a.logger.Debug("Session established", "user_id", user.ID)
	a.view.ShowMain(*user)

	steps := []func(context.Context) error{a.RefreshStats, a.RefreshClients, a.RefreshInvoices}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			a.fail(ActionRefresh, "Failed to load data.", err)
			if !a.Authenticated() {
				return Unauthenticated
			}
		}
	}
	return Authenticated
}

// Login starts a session and re-runs the session gate. Failures carry the
// server's text when it sent one.
func (a *App) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return a.formFailure(ActionLogin, "", failure.Localf("Email and password are required."))
	}
	if _, err := a.gw.Login(ctx, email, password); err != nil {
		return a.formFailure(ActionLogin, "Invalid credentials.", err)
	}
	if a.CheckSession(ctx) != Authenticated {
		return a.formFailure(ActionLogin, "Login failed.", failure.New(failure.Unauthorized, "", nil))
	}
	return a.succeed(ActionLogin, "Login successful!")
}

// Register creates an account, then re-runs the session gate.
func (a *App) Register(ctx context.Context, name, email, password string) Result {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return a.formFailure(ActionRegister, "", failure.Localf("Name, email and password are required."))
	}
	if _, err := a.gw.Register(ctx, name, email, password); err != nil {
		return a.formFailure(ActionRegister, "Registration failed.", err)
	}
	if a.CheckSession(ctx) != Authenticated {
		return a.formFailure(ActionRegister, "Registration failed.", failure.New(failure.Unauthorized, "", nil))
	}
	return a.succeed(ActionRegister, "Registration successful!")
}

// Logout ends the session after confirmation. The local session is dropped
// even when the server call fails.
func (a *App) Logout(ctx context.Context) Result {
	if !a.confirm.Confirm("Are you sure you want to logout?") {
		return declined(ActionLogout)
	}
	if err := a.gw.Logout(ctx); err != nil {
		a.logger.Warn("Logout request failed", "error", err)
	}
	a.teardown()
	return a.succeed(ActionLogout, "Logged out successfully!")
}

// formFailure reports a login/registration failure as form text: the
// server's message, else fallback, else the network text. An unauthorized
// answer still drops whatever session was cached.
func (a *App) formFailure(action Action, fallback string, err error) Result {
	msg := failure.Message(err)
	switch {
	case msg != "":
	case failure.Is(err, failure.Network):
		msg = msgNetwork
	default:
		msg = fallback
	}
	if failure.Is(err, failure.Unauthorized) {
		a.teardown()
	}
	r := Result{Action: action, Outcome: Failure, Message: msg, Err: err}
	a.logger.Warn("Authentication failed", "action", action, "error", err)
	a.notifier.Notify(r)
	return r
}

// teardown drops the session and every cache, then shows the login view.
func (a *App) teardown() {
	a.state.User = nil
	a.state.Clients = nil
	a.state.Invoices = nil
	a.state.Stats = models.Stats{}
	a.view.ShowLogin()
}

// requireSession fails locally, without a request, when nobody is logged in.
func (a *App) requireSession(action Action) (Result, bool) {
	if a.Authenticated() {
		return Result{}, true
	}
	r := Result{Action: action, Outcome: Failure, Message: failureText("", errNotLoggedIn), Err: errNotLoggedIn}
	a.notifier.Notify(r)
	return r, false
}
