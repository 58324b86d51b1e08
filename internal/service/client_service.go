package service

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/mmynk/freelancepay/internal/events"
	"github.com/mmynk/freelancepay/internal/httpjson"
	"github.com/mmynk/freelancepay/internal/middleware"
	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/storage"
)

// ClientService serves the /clients endpoints of the signed-in user.
type ClientService struct {
	store  storage.Store
	events events.Publisher
	logger *slog.Logger
}

// NewClientService creates a new ClientService with the given storage backend.
func NewClientService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *ClientService {
	return &ClientService{store: store, events: publisher, logger: logger}
}

// List returns every client, newest first.
func (s *ClientService) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	clients, err := s.store.ListClients(r.Context(), userID)
	if err != nil {
		writeStoreError(w, s.logger, "ListClients", "Client", err)
		return
	}
	httpjson.Write(w, http.StatusOK, clients)
}

// readClient decodes and validates a client body. It writes a 400 and
// returns false when the body is unusable.
func readClient(w http.ResponseWriter, r *http.Request) (models.ClientInput, bool) {
	var in models.ClientInput
	if err := httpjson.Read(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Email == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name and email are required")
		return in, false
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid email address")
		return in, false
	}
	return in, true
}

// Create adds a client.
func (s *ClientService) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := readClient(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())
	id, err := s.store.CreateClient(r.Context(), userID, in)
	if err != nil {
		writeStoreError(w, s.logger, "CreateClient", "Client", err)
		return
	}
	s.logger.Info("Client created", "user_id", userID, "client_id", id)
	httpjson.Write(w, http.StatusCreated, messageResponse{ID: id, Message: "Client created successfully"})
}

// Update replaces a client's name, email and phone.
func (s *ClientService) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := readClient(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())
	if err := s.store.UpdateClient(r.Context(), userID, id, in); err != nil {
		writeStoreError(w, s.logger, "UpdateClient", "Client", err)
		return
	}
	s.logger.Info("Client updated", "user_id", userID, "client_id", id)
	httpjson.Write(w, http.StatusOK, messageResponse{Message: "Client updated successfully"})
}

// Delete removes a client and all of its invoices.
func (s *ClientService) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	userID := middleware.GetUserID(r.Context())
	if err := s.store.DeleteClient(r.Context(), userID, id); err != nil {
		writeStoreError(w, s.logger, "DeleteClient", "Client", err)
		return
	}
	s.logger.Info("Client deleted", "user_id", userID, "client_id", id)
	publish(r, s.events, s.logger, events.Event{Type: events.ClientDeleted, UserID: userID, ClientID: id})
	httpjson.Write(w, http.StatusOK, messageResponse{Message: "Client deleted successfully"})
}

// publish sends e and logs failures; clients never see them.
func publish(r *http.Request, p events.Publisher, logger *slog.Logger, e events.Event) {
	e.OccurredAt = time.Now().UTC()
	if err := p.Publish(r.Context(), e); err != nil {
		logger.Warn("Failed to publish event", "type", e.Type, "error", err)
	}
}
