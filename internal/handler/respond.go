package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/ledger"
)

// envelope is the uniform response shape the frontend consumes.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		log.Error().Err(err).Msg("handler: failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: true, Message: message})
}

// readJSON decodes a request body into dst, capping it at 4 MB: payment
// screenshots arrive base64-inlined and anything larger is abuse.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// writeLedgerError maps ledger sentinels onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, ledger.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "order item not found")
	case errors.Is(err, ledger.ErrNotOwner):
		writeError(w, http.StatusForbidden, "this order belongs to a different telegram username")
	case errors.Is(err, ledger.ErrOrderLocked):
		writeError(w, http.StatusConflict, "order is locked and can no longer be changed")
	case errors.Is(err, ledger.ErrOrderCancelled):
		writeError(w, http.StatusConflict, "order was cancelled")
	case errors.Is(err, ledger.ErrNoItems):
		writeError(w, http.StatusBadRequest, "order must keep at least one item")
	default:
		log.Error().Err(err).Msg("handler: ledger operation failed")
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
