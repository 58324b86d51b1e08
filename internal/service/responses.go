package service

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmynk/freelancepay/internal/httpjson"
	"github.com/mmynk/freelancepay/internal/storage"
)

// messageResponse is the success body of mutations. ID is set by creates.
type messageResponse struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

// pathID parses the {id} wildcard. It writes a 400 and returns false when the
// id is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpjson.Error(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

// writeStoreError maps storage errors to responses. what names the entity
// in the 404 text, e.g. "Client".
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, op, what string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, storage.ErrConflict):
		httpjson.Error(w, http.StatusConflict, "A "+strings.ToLower(what)+" with this email already exists")
	default:
		logger.Error(op+" failed", "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
