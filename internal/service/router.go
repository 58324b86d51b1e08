// Package service implements the FreelancePay REST API.
package service

import (
	"net/http"

	"github.com/mmynk/freelancepay/internal/httpjson"
)

// Services are the handlers mounted by NewRouter.
type Services struct {
	Auth     *AuthService
	Clients  *ClientService
	Invoices *InvoiceService
}

// NewRouter mounts the API under /api. requireAuth guards every route except
// login and registration.
func NewRouter(svc Services, requireAuth func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, requireAuth(h))
	}

	mux.HandleFunc("POST /api/register", svc.Auth.Register)
	mux.HandleFunc("POST /api/login", svc.Auth.Login)
	protected("POST /api/logout", svc.Auth.Logout)
	protected("GET /api/me", svc.Auth.Me)

	protected("GET /api/stats", svc.Invoices.Stats)

	protected("GET /api/clients", svc.Clients.List)
	protected("POST /api/clients", svc.Clients.Create)
	protected("PUT /api/clients/{id}", svc.Clients.Update)
	protected("DELETE /api/clients/{id}", svc.Clients.Delete)

	protected("GET /api/invoices", svc.Invoices.List)
	protected("POST /api/invoices", svc.Invoices.Create)
	protected("PUT /api/invoices/{id}", svc.Invoices.Update)
	protected("PUT /api/invoices/{id}/status", svc.Invoices.SetStatus)
	protected("DELETE /api/invoices/{id}", svc.Invoices.Delete)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		httpjson.Error(w, http.StatusNotFound, "Not found")
	})

	return mux
}
