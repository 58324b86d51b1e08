package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

func TestCheckSessionLoadsEverything(t *testing.T) {
	a, gw, rec := newTestApp(true)
	gw.clients = append(gw.clients, sampleClients...)
	gw.invoices = append(gw.invoices, sampleInvoices...)

	status := a.CheckSession(t.Context())

	assert.Equal(t, Authenticated, status)
	assert.Equal(t, []string{
		"me", "view:main",
		"stats", "render:stats",
		"clients", "render:clients",
		"invoices", "render:invoices",
	}, gw.calls)
	assert.True(t, rec.main)
	assert.Equal(t, "Jane Doe", a.User().Name)
	assert.Len(t, a.State().Clients, 3)
	assert.Equal(t, 3, a.State().Stats.TotalInvoices)
}

func TestCheckSessionWithoutSession(t *testing.T) {
	a, gw, rec := newTestApp(true)
	user := gw.user
	gw.user = nil

	assert.Equal(t, Unauthenticated, a.CheckSession(t.Context()))
	assert.Equal(t, []string{"me", "view:login"}, gw.calls)
	assert.Empty(t, rec.results, "no session is not an error")
	assert.False(t, a.Authenticated())
	assert.True(t, a.SessionRejected())

	gw.user = user
	assert.Equal(t, Authenticated, a.CheckSession(t.Context()))
	assert.False(t, a.SessionRejected(), "a new session clears the rejection")
}

func TestCheckSessionNetworkFailure(t *testing.T) {
	a, gw, _ := newTestApp(true)
	gw.fail["me"] = failure.New(failure.Network, "", errors.New("connection refused"))

	assert.Equal(t, Unauthenticated, a.CheckSession(t.Context()))
	assert.False(t, a.Authenticated())
	assert.False(t, a.SessionRejected(), "an unreachable server says nothing about the token")
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a, gw, rec := newTestApp(true)
		gw.user = nil

		r := a.Login(t.Context(), " jane@example.com ", "secret")

		require.True(t, r.OK())
		assert.Equal(t, "Login successful!", r.Message)
		assert.True(t, a.Authenticated())
		assert.True(t, rec.main)
		assert.Equal(t, "login", gw.calls[0])
		assert.Equal(t, "me", gw.calls[1])
	})

	t.Run("wrong password shows server text", func(t *testing.T) {
		a, gw, rec := newTestApp(true)
		gw.user = nil

		r := a.Login(t.Context(), "jane@example.com", "nope")

		assert.Equal(t, Failure, r.Outcome)
		assert.Equal(t, "Invalid email or password", r.Message)
		assert.False(t, a.Authenticated())
		assert.False(t, rec.main)
	})

	t.Run("missing fields never reach the server", func(t *testing.T) {
		a, gw, _ := newTestApp(true)

		r := a.Login(t.Context(), "", "secret")

		assert.Equal(t, failure.LocalValidation, r.Kind())
		assert.NotContains(t, gw.calls, "login")
	})

	t.Run("network failure", func(t *testing.T) {
		a, gw, _ := newTestApp(true)
		gw.fail["login"] = failure.New(failure.Network, "", errors.New("timeout"))

		r := a.Login(t.Context(), "jane@example.com", "secret")

		assert.Equal(t, failure.Network, r.Kind())
		assert.Equal(t, msgNetwork, r.Message)
	})
}

func TestRegister(t *testing.T) {
	a, gw, _ := newTestApp(true)
	gw.user = nil

	r := a.Register(t.Context(), "Sam Otieno", "sam@example.com", "pw")

	require.True(t, r.OK())
	assert.Equal(t, "Registration successful!", r.Message)
	assert.Equal(t, "Sam Otieno", a.User().Name)

	r = a.Register(t.Context(), "Sam", "", "pw")
	assert.Equal(t, failure.LocalValidation, r.Kind())
}

func TestLogout(t *testing.T) {
	t.Run("declined keeps the session", func(t *testing.T) {
		a, gw, rec := newTestApp(false)
		require.Equal(t, Authenticated, a.CheckSession(t.Context()))
		gw.calls = nil

		r := a.Logout(t.Context())

		assert.Equal(t, Declined, r.Outcome)
		assert.Empty(t, gw.calls)
		assert.Empty(t, rec.results)
		assert.True(t, a.Authenticated())
	})

	t.Run("confirmed clears everything", func(t *testing.T) {
		a, gw, rec := newTestApp(true)
		gw.clients = append(gw.clients, sampleClients...)
		require.Equal(t, Authenticated, a.CheckSession(t.Context()))

		r := a.Logout(t.Context())

		assert.True(t, r.OK())
		assert.Equal(t, "Logged out successfully!", r.Message)
		assert.False(t, a.Authenticated())
		assert.Empty(t, a.State().Clients)
		assert.Empty(t, a.State().Invoices)
		assert.Equal(t, models.Stats{}, a.State().Stats)
		assert.False(t, rec.main)
	})

	t.Run("server failure still logs out locally", func(t *testing.T) {
		a, gw, _ := newTestApp(true)
		require.Equal(t, Authenticated, a.CheckSession(t.Context()))
		gw.fail["logout"] = failure.FromStatus(500, "")

		r := a.Logout(t.Context())

		assert.True(t, r.OK())
		assert.False(t, a.Authenticated())
	})
}

func TestOperationsRequireSession(t *testing.T) {
	a, gw, _ := newTestApp(true)

	r := a.CreateClient(t.Context(), models.ClientInput{Name: "Acme", Email: "a@acme.test"})

	assert.Equal(t, failure.LocalValidation, r.Kind())
	assert.Equal(t, "Please log in first.", r.Message)
	assert.NotContains(t, gw.calls, "create-client")
}
