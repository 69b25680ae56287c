package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
)

type RouterConfig struct {
	SessionCookieName string
	Metrics           *metrics.MetricsManager
}

func NewRouter(h *Handler, log logger.Logger, cfg RouterConfig) http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.Recoverer)
	mux.Use(RequestLogger(log, cfg.Metrics))

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	mux.Get("/api/ping", h.ping)

	mux.Group(func(r chi.Router) {
		r.Use(Session(cfg.SessionCookieName))

		r.Get("/api/listings", h.listListings)
		r.Post("/api/listings", h.createListing)
		r.Get("/api/listings/draft", h.draft)
		r.Get("/api/listings/{id}", h.getListing)
		r.Get("/api/listings/{id}/countdown", h.streamCountdown)
		r.Post("/api/listings/{id}/bids", h.placeBid)

		r.Get("/api/cart", h.getCart)
		r.Post("/api/cart/items", h.addCartItem)
		r.Delete("/api/cart/items/{id}", h.removeCartItem)

		r.Get("/api/purchase-request", h.composePurchaseRequest)
		r.Post("/api/purchase-request/send", h.sendPurchaseRequest)
	})

	return mux
}
