// Package storetest holds the behaviour every storage.Store backend must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/storage"
)

func amount(v float64) *float64 { return &v }

// Run exercises store. It creates its own users, so the store may be shared
// with other tests but should start without those emails.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice Wanjiru", "hash-a")
	require.NoError(t, store.CreateUser(ctx, alice))
	bob := models.NewUser("bob@example.com", "Bob Otieno", "hash-b")
	require.NoError(t, store.CreateUser(ctx, bob))

	t.Run("CreateUser assigns ID and rejects duplicate email", func(t *testing.T) {
		assert.NotZero(t, alice.ID)
		assert.NotEqual(t, alice.ID, bob.ID)

		dup := models.NewUser("alice@example.com", "Other", "hash")
		err := store.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("GetUser by email and ID", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "hash-a", got.PasswordHash)

		got, err = store.GetUserByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob Otieno", got.Name)

		_, err = store.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetUserByID(ctx, 999999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	var acmeID, brightID int64

	t.Run("clients are scoped to their user", func(t *testing.T) {
		var err error
		acmeID, err = store.CreateClient(ctx, alice.ID, models.ClientInput{Name: "Acme", Email: "ap@acme.test", Phone: "+254700000001"})
		require.NoError(t, err)
		brightID, err = store.CreateClient(ctx, alice.ID, models.ClientInput{Name: "Bright", Email: "hi@bright.test"})
		require.NoError(t, err)

		// Another user may reuse the email.
		_, err = store.CreateClient(ctx, bob.ID, models.ClientInput{Name: "Acme", Email: "ap@acme.test"})
		require.NoError(t, err)

		_, err = store.CreateClient(ctx, alice.ID, models.ClientInput{Name: "Acme 2", Email: "ap@acme.test"})
		assert.ErrorIs(t, err, storage.ErrConflict)

		clients, err := store.ListClients(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, clients, 2)
		assert.Equal(t, brightID, clients[0].ID, "newest first")
		assert.Equal(t, "+254700000001", clients[1].Phone)
		assert.False(t, clients[1].CreatedAt.IsZero())

		bobs, err := store.ListClients(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, bobs, 1)
	})

	t.Run("UpdateClient", func(t *testing.T) {
		err := store.UpdateClient(ctx, alice.ID, acmeID, models.ClientInput{Name: "Acme Group", Email: "ap@acme.test"})
		require.NoError(t, err)

		err = store.UpdateClient(ctx, bob.ID, acmeID, models.ClientInput{Name: "Stolen", Email: "x@x.test"})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.UpdateClient(ctx, alice.ID, acmeID, models.ClientInput{Name: "Acme", Email: "hi@bright.test"})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	var inv1, inv2 int64

	t.Run("invoices", func(t *testing.T) {
		due, _ := models.ParseDate("2026-03-01")
		var err error
		inv1, err = store.CreateInvoice(ctx, alice.ID, models.InvoiceInput{
			ClientID: acmeID, Amount: amount(1500), Description: "Consulting", DueDate: due,
		})
		require.NoError(t, err)
		inv2, err = store.CreateInvoice(ctx, alice.ID, models.InvoiceInput{ClientID: brightID, Amount: amount(250.5)})
		require.NoError(t, err)

		_, err = store.CreateInvoice(ctx, bob.ID, models.InvoiceInput{ClientID: acmeID, Amount: amount(1)})
		assert.ErrorIs(t, err, storage.ErrNotFound, "cannot bill another user's client")

		got, err := store.GetInvoice(ctx, alice.ID, inv1)
		require.NoError(t, err)
		assert.Equal(t, "Acme Group", got.ClientName)
		assert.Equal(t, models.StatusUnpaid, got.Status)
		assert.Equal(t, "2026-03-01", got.DueDate.String())
		assert.Equal(t, 1500.0, got.Amount)

		invoices, err := store.ListInvoices(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, invoices, 2)
		assert.Equal(t, inv2, invoices[0].ID)
		assert.True(t, invoices[0].DueDate.IsZero())

		_, err = store.GetInvoice(ctx, bob.ID, inv1)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateInvoice and status", func(t *testing.T) {
		err := store.UpdateInvoice(ctx, alice.ID, inv1, models.InvoiceUpdate{Amount: amount(1600), Description: "Consulting (revised)"})
		require.NoError(t, err)
		require.NoError(t, store.SetInvoiceStatus(ctx, alice.ID, inv1, models.StatusPaid))

		got, err := store.GetInvoice(ctx, alice.ID, inv1)
		require.NoError(t, err)
		assert.Equal(t, 1600.0, got.Amount)
		assert.Equal(t, acmeID, got.ClientID)
		assert.Equal(t, models.StatusPaid, got.Status)
		assert.True(t, got.DueDate.IsZero(), "an empty due date clears it")

		assert.ErrorIs(t, store.SetInvoiceStatus(ctx, bob.ID, inv1, models.StatusUnpaid), storage.ErrNotFound)
	})

	t.Run("Stats", func(t *testing.T) {
		st, err := store.Stats(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.Stats{TotalClients: 2, TotalInvoices: 2, PaidTotal: 1600, UnpaidTotal: 250.5}, st)

		st, err = store.Stats(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.Stats{TotalClients: 1}, st)
	})

	t.Run("DeleteClient removes its invoices", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteClient(ctx, bob.ID, acmeID), storage.ErrNotFound)

		require.NoError(t, store.DeleteClient(ctx, alice.ID, acmeID))

		_, err := store.GetInvoice(ctx, alice.ID, inv1)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		invoices, err := store.ListInvoices(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, inv2, invoices[0].ID)
	})

	t.Run("DeleteInvoice", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteInvoice(ctx, bob.ID, inv2), storage.ErrNotFound)
		require.NoError(t, store.DeleteInvoice(ctx, alice.ID, inv2))
		assert.ErrorIs(t, store.DeleteInvoice(ctx, alice.ID, inv2), storage.ErrNotFound)

		st, err := store.Stats(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.Stats{TotalClients: 1}, st)
	})
}
