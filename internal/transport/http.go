// Package transport wires the HTTP routes.
package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pephaul/orderdesk/internal/handler"
)

func NewRouter(h *handler.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.ListProducts)
		r.Get("/exchange-rate", h.ExchangeRate)
		r.Get("/settings", h.GetSettings)
		r.Get("/inventory", h.InventorySnapshot)
		r.Get("/stats", h.OrderStats)

		r.Post("/orders", h.SubmitOrder)
		r.Get("/orders/lookup", h.LookupOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Post("/orders/{id}/add-items", h.AddItems)
		r.Post("/orders/{id}/update-item", h.UpdateItem)
		r.Post("/orders/{id}/cancel", h.CancelOrder)
		r.Post("/orders/{id}/payment", h.UploadPayment)
		r.Post("/orders/{id}/shipping", h.SetShipping)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.AdminLogin)
			r.Group(func(r chi.Router) {
				r.Use(h.AdminOnly)
				r.Get("/orders", h.ListAllOrders)
				r.Post("/orders/{id}/confirm-payment", h.ConfirmPayment)
				r.Post("/orders/{id}/mark-unpaid", h.MarkUnpaid)
				r.Post("/orders/{id}/lock", h.LockOrder)
				r.Post("/orders/{id}/unlock", h.UnlockOrder)
				r.Post("/orders/{id}/tracking", h.SetTracking)
				r.Post("/products/{code}/lock", h.LockProduct)
				r.Post("/form-lock", h.LockOrderForm)
				r.Post("/cleanup", h.CleanupRows)
				r.Post("/cache/flush", h.FlushCache)
			})
		})
	})

	return r
}
