// Package handler exposes the order desk over HTTP: a public surface for
// customers placing and tracking orders, and a password-gated admin
// surface for fulfillment.
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/pephaul/orderdesk/internal/cache"
	"github.com/pephaul/orderdesk/internal/catalog"
	"github.com/pephaul/orderdesk/internal/imagestore"
	"github.com/pephaul/orderdesk/internal/inventory"
	"github.com/pephaul/orderdesk/internal/ledger"
	"github.com/pephaul/orderdesk/internal/notify"
	"github.com/pephaul/orderdesk/internal/pricing"
	"github.com/pephaul/orderdesk/internal/settings"
)

type Handler struct {
	ledger   *ledger.Ledger
	catalog  *catalog.Resolver
	inv      *inventory.Aggregator
	locks    *inventory.LockStore
	settings *settings.Service
	rates    *pricing.RateFetcher
	uploads  *imagestore.Chain
	notifier *notify.Dispatcher
	store    *cache.Store

	adminPassword string
}

type Deps struct {
	Ledger        *ledger.Ledger
	Catalog       *catalog.Resolver
	Inventory     *inventory.Aggregator
	Locks         *inventory.LockStore
	Settings      *settings.Service
	Rates         *pricing.RateFetcher
	Uploads       *imagestore.Chain
	Notifier      *notify.Dispatcher
	Store         *cache.Store
	AdminPassword string
}

func New(d Deps) *Handler {
	return &Handler{
		ledger:        d.Ledger,
		catalog:       d.Catalog,
		inv:           d.Inventory,
		locks:         d.Locks,
		settings:      d.Settings,
		rates:         d.Rates,
		uploads:       d.Uploads,
		notifier:      d.Notifier,
		store:         d.Store,
		adminPassword: d.AdminPassword,
	}
}

// --- public catalog / pricing ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products := h.catalog.Products(ctx)

	locks := map[string]inventory.Lock{}
	if h.locks != nil {
		if m, err := h.locks.Locked(ctx); err == nil {
			locks = m
		}
	}
	type productView struct {
		catalog.Product
		Locked bool `json:"locked"`
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{Product: p, Locked: locks[p.Code].Locked})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ExchangeRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"rate": h.rates.Rate(r.Context())})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}

func (h *Handler) InventorySnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.inv.Snapshot(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) OrderStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.inv.Stats(ctx)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		inventory.Stats
		OrderGoal int `json:"order_goal"`
	}{Stats: stats, OrderGoal: h.settings.Get(ctx).OrderGoal})
}

// --- order intake ---

type itemRequest struct {
	ProductCode string `json:"product_code"`
	OrderType   string `json:"order_type"`
	Supplier    string `json:"supplier"`
	Qty         int    `json:"qty"`
}

type submitOrderRequest struct {
	FullName string        `json:"full_name"`
	Telegram string        `json:"telegram"`
	Remarks  string        `json:"remarks"`
	Items    []itemRequest `json:"items"`
}

func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()

	if v := h.settings.Get(ctx); v.FormLocked {
		msg := v.LockMessage
		if msg == "" {
			msg = "ordering is temporarily closed"
		}
		writeError(w, http.StatusForbidden, msg)
		return
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Telegram) == "" {
		writeError(w, http.StatusBadRequest, "full name and telegram username are required")
		return
	}

	items, err := h.priceItems(r, consolidate(req.Items))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.ledger.SaveOrder(ctx, ledger.Draft{
		FullName:     strings.TrimSpace(req.FullName),
		Username:     strings.TrimSpace(req.Telegram),
		ExchangeRate: h.rates.Rate(ctx),
		Items:        items,
		Remarks:      strings.TrimSpace(req.Remarks),
	})
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	// notification must not delay or fail the order response
	go h.notifier.NotifyAdmin(context.WithoutCancel(ctx), notify.NewOrderMessage(order))
	writeJSON(w, http.StatusCreated, order)
}

// consolidate merges duplicate (code, type, supplier) lines by summing
// quantities; customers double-click the add button more than you'd think.
func consolidate(items []itemRequest) []itemRequest {
	type key struct{ code, typ, supplier string }
	index := make(map[key]int)
	var out []itemRequest
	for _, it := range items {
		k := key{
			code:     strings.ToUpper(strings.TrimSpace(it.ProductCode)),
			typ:      normalizeOrderType(it.OrderType),
			supplier: strings.TrimSpace(it.Supplier),
		}
		if i, ok := index[k]; ok {
			out[i].Qty += it.Qty
			continue
		}
		it.ProductCode, it.OrderType, it.Supplier = k.code, k.typ, k.supplier
		index[k] = len(out)
		out = append(out, it)
	}
	return out
}

func normalizeOrderType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kit", "kits":
		return ledger.TypeKit
	case "vial", "vials":
		return ledger.TypeVial
	}
	return strings.TrimSpace(s)
}

// priceItems validates requested lines against the catalog and lock
// table, returning fully priced ledger items.
func (h *Handler) priceItems(r *http.Request, reqs []itemRequest) ([]ledger.Item, error) {
	ctx := r.Context()
	if len(reqs) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	locks := map[string]inventory.Lock{}
	if h.locks != nil {
		if m, err := h.locks.Locked(ctx); err == nil {
			locks = m
		}
	}

	items := make([]ledger.Item, 0, len(reqs))
	for _, req := range reqs {
		if req.Qty <= 0 {
			return nil, fmt.Errorf("quantity for %s must be positive", req.ProductCode)
		}
		if req.OrderType != ledger.TypeKit && req.OrderType != ledger.TypeVial {
			return nil, fmt.Errorf("order type for %s must be Kit or Vial", req.ProductCode)
		}
		if locks[req.ProductCode].Locked {
			return nil, fmt.Errorf("product %s is currently locked for ordering", req.ProductCode)
		}
		p, ok := h.catalog.Find(ctx, req.ProductCode, req.Supplier)
		if !ok {
			return nil, fmt.Errorf("unknown product %s", req.ProductCode)
		}
		items = append(items, ledger.Item{
			ProductCode:  p.Code,
			ProductName:  p.Name,
			OrderType:    req.OrderType,
			Supplier:     p.Supplier,
			Qty:          req.Qty,
			UnitPriceUSD: p.UnitPrice(req.OrderType),
			VialsPerKit:  p.VialsPerKit,
		})
	}
	return items, nil
}

// --- order lookup and self-service ---

func (h *Handler) LookupOrders(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if strings.TrimSpace(username) == "" {
		writeError(w, http.StatusBadRequest, "username query parameter is required")
		return
	}
	orders, err := h.ledger.FindOrdersByUsername(r.Context(), username)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.ledger.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type addItemsRequest struct {
	Telegram string        `json:"telegram"`
	Items    []itemRequest `json:"items"`
}

func (h *Handler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req addItemsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.priceItems(r, consolidate(req.Items))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	order, err := h.ledger.AddItems(ctx, chi.URLParam(r, "id"), req.Telegram, h.rates.Rate(ctx), items)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type updateItemRequest struct {
	Telegram    string `json:"telegram"`
	ProductCode string `json:"product_code"`
	OrderType   string `json:"order_type"`
	Supplier    string `json:"supplier"`
	Qty         int    `json:"qty"`
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.ledger.UpdateItemQuantity(r.Context(), chi.URLParam(r, "id"),
		req.Telegram, req.ProductCode, req.OrderType, req.Supplier, req.Qty)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type cancelRequest struct {
	Telegram string `json:"telegram"`
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Telegram) == "" {
		writeError(w, http.StatusBadRequest, "telegram username is required to cancel")
		return
	}
	if err := h.ledger.CancelOrder(r.Context(), chi.URLParam(r, "id"), req.Telegram); err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type paymentRequest struct {
	Telegram string `json:"telegram"`
	Image    string `json:"image"`
}

func (h *Handler) UploadPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	data, mimeType, err := imagestore.DecodePayload(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	link, err := h.uploads.Upload(ctx, id+"-payment.png", data, mimeType)
	if err != nil {
		log.Error().Err(err).Str("order_id", id).Msg("handler: payment screenshot upload failed")
		writeError(w, http.StatusBadGateway, "could not store the payment screenshot, please retry")
		return
	}

	order, err := h.ledger.MarkPaymentUploaded(ctx, id, req.Telegram, link)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	go h.notifier.NotifyAdmin(context.WithoutCancel(ctx), notify.PaymentUploadedMessage(order))
	writeJSON(w, http.StatusOK, order)
}

type shippingRequest struct {
	Telegram string `json:"telegram"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *Handler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, "shipping name and address are required")
		return
	}
	order, err := h.ledger.SetShipping(r.Context(), chi.URLParam(r, "id"),
		req.Telegram, req.Name, req.Phone, req.Address)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
