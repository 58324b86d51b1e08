package app

import (
	"context"
	"fmt"

	"github.com/mmynk/freelancepay/internal/failure"
)

// refreshSet names the caches a flow refetches, in a fixed order: clients,
// invoices, stats.
type refreshSet uint8

const (
	refreshClients refreshSet = 1 << iota
	refreshInvoices
	refreshStats

	refreshAll = refreshClients | refreshInvoices | refreshStats
)

// RefreshClients replaces the client cache with the server's full list and
// re-renders the client view.
func (a *App) RefreshClients(ctx context.Context) error {
	clients, err := a.gw.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}
	a.state.Clients = clients
	a.renderClients()
	return nil
}

// RefreshInvoices replaces the invoice cache with the server's full list and
// re-renders the invoice view.
func (a *App) RefreshInvoices(ctx context.Context) error {
	invoices, err := a.gw.ListInvoices(ctx)
	if err != nil {
		return fmt.Errorf("failed to load invoices: %w", err)
	}
	a.state.Invoices = invoices
	a.renderInvoices()
	return nil
}

// RefreshStats replaces the cached stats and re-renders them.
func (a *App) RefreshStats(ctx context.Context) error {
	stats, err := a.gw.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	a.state.Stats = stats
	a.view.RenderStats(stats)
	return nil
}

// refresh refetches the caches in set. It stops at the first unauthorized
// failure, which has already ended the session; other failures are reported
// and the remaining caches are still refreshed.
func (a *App) refresh(ctx context.Context, set refreshSet) bool {
	steps := []struct {
		bit refreshSet
		fn  func(context.Context) error
	}{
		{refreshClients, a.RefreshClients},
		{refreshInvoices, a.RefreshInvoices},
		{refreshStats, a.RefreshStats},
	}
	ok := true
	for _, step := range steps {
		if set&step.bit == 0 {
			continue
		}
		if err := step.fn(ctx); err != nil {
			ok = false
			a.fail(ActionRefresh, "Failed to refresh data.", err)
			if failure.Is(err, failure.Unauthorized) {
				return false
			}
		}
	}
	return ok
}

// Refresh refetches every cache.
func (a *App) Refresh(ctx context.Context) Result {
	if r, ok := a.requireSession(ActionRefresh); !ok {
		return r
	}
	if !a.refresh(ctx, refreshAll) {
		return Result{Action: ActionRefresh, Outcome: Failure, Message: "Failed to refresh data."}
	}
	return Result{Action: ActionRefresh, Outcome: Success}
}
