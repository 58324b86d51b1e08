package service

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/freelancepay/internal/events"
	"github.com/mmynk/freelancepay/internal/httpjson"
	"github.com/mmynk/freelancepay/internal/middleware"
	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/storage"
)

// InvoiceService serves the /invoices endpoints of the signed-in user.
type InvoiceService struct {
	store  storage.Store
	events events.Publisher
	logger *slog.Logger
}

// NewInvoiceService creates a new InvoiceService with the given storage backend.
func NewInvoiceService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{store: store, events: publisher, logger: logger}
}

// invoiceRequest is the body of create and update. ClientID is ignored on
// update. DueDate is parsed by hand so a bad date gets its own message.
type invoiceRequest struct {
	ClientID    int64    `json:"client_id"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
}

type invoiceFields struct {
	amount      float64
	description string
	dueDate     models.Date
}

// validate checks the fields shared by create and update. It writes a 400
// and returns false on failure.
func (req invoiceRequest) validate(w http.ResponseWriter) (invoiceFields, bool) {
	if *req.Amount < 0 {
		httpjson.Error(w, http.StatusBadRequest, "Amount must be non-negative")
		return invoiceFields{}, false
	}
	due, err := models.ParseDate(req.DueDate)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Due date must be YYYY-MM-DD")
		return invoiceFields{}, false
	}
	return invoiceFields{amount: *req.Amount, description: strings.TrimSpace(req.Description), dueDate: due}, true
}

// List returns every invoice with its client's name, newest first.
func (s *InvoiceService) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	invoices, err := s.store.ListInvoices(r.Context(), userID)
	if err != nil {
		writeStoreError(w, s.logger, "ListInvoices", "Invoice", err)
		return
	}
	httpjson.Write(w, http.StatusOK, invoices)
}

// Create adds an unpaid invoice for one of the user's clients.
func (s *InvoiceService) Create(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ClientID <= 0 || req.Amount == nil {
		httpjson.Error(w, http.StatusBadRequest, "Client ID and amount are required")
		return
	}
	f, ok := req.validate(w)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	id, err := s.store.CreateInvoice(r.Context(), userID, models.InvoiceInput{
		ClientID:    req.ClientID,
		Amount:      &f.amount,
		Description: f.description,
		DueDate:     f.dueDate,
	})
	if err != nil {
		writeStoreError(w, s.logger, "CreateInvoice", "Client", err)
		return
	}

	s.logger.Info("Invoice created", "user_id", userID, "invoice_id", id, "client_id", req.ClientID)
	publish(r, s.events, s.logger, events.Event{
		Type: events.InvoiceCreated, UserID: userID, ClientID: req.ClientID, InvoiceID: id,
		Status: string(models.StatusUnpaid), Amount: &f.amount,
	})
	httpjson.Write(w, http.StatusCreated, messageResponse{ID: id, Message: "Invoice created successfully"})
}

// Update replaces amount, description and due date. The owning client never
// changes.
func (s *InvoiceService) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req invoiceRequest
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount == nil {
		httpjson.Error(w, http.StatusBadRequest, "Amount is required")
		return
	}
	f, ok := req.validate(w)
	if !ok {
		return
	}

	userID := middleware.GetUserID(r.Context())
	err := s.store.UpdateInvoice(r.Context(), userID, id, models.InvoiceUpdate{
		Amount:      &f.amount,
		Description: f.description,
		DueDate:     f.dueDate,
	})
	if err != nil {
		writeStoreError(w, s.logger, "UpdateInvoice", "Invoice", err)
		return
	}

	s.logger.Info("Invoice updated", "user_id", userID, "invoice_id", id)
	publish(r, s.events, s.logger, events.Event{Type: events.InvoiceUpdated, UserID: userID, InvoiceID: id, Amount: &f.amount})
	httpjson.Write(w, http.StatusOK, messageResponse{Message: "Invoice updated successfully"})
}

// SetStatus marks an invoice paid or unpaid.
func (s *InvoiceService) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.StatusUpdate
	if err := httpjson.Read(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	status, err := models.ParseInvoiceStatus(string(req.Status))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Status must be paid or unpaid")
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := s.store.SetInvoiceStatus(r.Context(), userID, id, status); err != nil {
		writeStoreError(w, s.logger, "SetInvoiceStatus", "Invoice", err)
		return
	}

	s.logger.Info("Invoice status changed", "user_id", userID, "invoice_id", id, "status", status)
	publish(r, s.events, s.logger, events.Event{Type: events.InvoiceStatusChanged, UserID: userID, InvoiceID: id, Status: string(status)})
	httpjson.Write(w, http.StatusOK, messageResponse{Message: "Invoice status updated successfully"})
}

// Delete removes an invoice.
func (s *InvoiceService) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())
	if err := s.store.DeleteInvoice(r.Context(), userID, id); err != nil {
		writeStoreError(w, s.logger, "DeleteInvoice", "Invoice", err)
		return
	}

	s.logger.Info("Invoice deleted", "user_id", userID, "invoice_id", id)
	publish(r, s.events, s.logger, events.Event{Type: events.InvoiceDeleted, UserID: userID, InvoiceID: id})
	httpjson.Write(w, http.StatusOK, messageResponse{Message: "Invoice deleted successfully"})
}

// Stats returns the dashboard totals.
func (s *InvoiceService) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	stats, err := s.store.Stats(r.Context(), userID)
	if err != nil {
		writeStoreError(w, s.logger, "Stats", "Stats", err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}
