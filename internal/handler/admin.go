package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pephaul/orderdesk/internal/notify"
)

// adminHeader carries the admin password on every privileged request.
// The original deployment is a single-operator tool behind TLS; a
// session layer would be ceremony without benefit.
const adminHeader = "X-Admin-Password"

// AdminOnly rejects requests that don't carry the admin password.
func (h *Handler) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.passwordOK(r.Header.Get(adminHeader)) {
			writeError(w, http.StatusUnauthorized, "admin authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) passwordOK(got string) bool {
	if h.adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.adminPassword)) == 1
}

type loginRequest struct {
	Password string `json:"password"`
}

// AdminLogin verifies the password so the frontend can gate its admin UI.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.passwordOK(req.Password) {
		writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.Orders(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	order, err := h.ledger.ConfirmPayment(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	go h.notifier.NotifyCustomer(context.WithoutCancel(ctx), order.Username, notify.PaymentConfirmedMessage(order))
	writeJSON(w, http.StatusOK, order)
}

// MarkUnpaid reverses a mistaken payment confirmation.
func (h *Handler) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.UnlockOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unpaid"})
}

func (h *Handler) LockOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.LockOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "locked"})
}

func (h *Handler) UnlockOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.UnlockOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unlocked"})
}

type trackingRequest struct {
	Tracking string `json:"tracking"`
}

func (h *Handler) SetTracking(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Tracking) == "" {
		writeError(w, http.StatusBadRequest, "tracking number is required")
		return
	}
	ctx := r.Context()
	order, err := h.ledger.SetTracking(ctx, chi.URLParam(r, "id"), strings.TrimSpace(req.Tracking))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	go h.notifier.NotifyCustomer(context.WithoutCancel(ctx), order.Username, notify.ShippedMessage(order))
	writeJSON(w, http.StatusOK, order)
}

type productLockRequest struct {
	Locked   bool   `json:"locked"`
	MaxKits  int    `json:"max_kits"`
	LockedBy string `json:"locked_by"`
}

// LockProduct sets a product's explicit lock flag and, when max_kits is
// positive, its per-product kit ceiling.
func (h *Handler) LockProduct(w http.ResponseWriter, r *http.Request) {
	var req productLockRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.locks.SetLock(r.Context(), chi.URLParam(r, "code"), req.Locked, req.MaxKits, req.LockedBy); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"locked": req.Locked})
}

type formLockRequest struct {
	Locked  bool   `json:"locked"`
	Message string `json:"message"`
}

func (h *Handler) LockOrderForm(w http.ResponseWriter, r *http.Request) {
	var req formLockRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.SetFormLocked(r.Context(), req.Locked, req.Message); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"locked": req.Locked})
}

// CleanupRows removes stray zero-quantity item rows left behind by old
// bugs and manual sheet edits. An order_id query parameter limits the
// sweep to that order's rows.
func (h *Handler) CleanupRows(w http.ResponseWriter, r *http.Request) {
	n, err := h.ledger.CleanupZeroQuantityRows(r.Context(), r.URL.Query().Get("order_id"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

// FlushCache drops every cached read; the admin's "I just edited the
// sheet by hand" button.
func (h *Handler) FlushCache(w http.ResponseWriter, _ *http.Request) {
	h.store.InvalidateAll()
	writeJSON(w, http.StatusOK, map[string]string{"status": "flushed"})
}
