package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/service"
)

const (
	maxBodyBytes         = 1 << 20
	defaultCountdownTick = time.Second
)

// Handler serves the marketplace API on top of the session-scoped services.
type Handler struct {
	listings      service.ListingService
	carts         service.CartService
	bids          service.BidService
	purchases     service.PurchaseService
	log           logger.Logger
	countdownTick time.Duration
}

func NewHandler(
	listings service.ListingService,
	carts service.CartService,
	bids service.BidService,
	purchases service.PurchaseService,
	log logger.Logger,
	countdownTick time.Duration,
) *Handler {
	if countdownTick <= 0 {
		countdownTick = defaultCountdownTick
	}
	return &Handler{
		listings:      listings,
		carts:         carts,
		bids:          bids,
		purchases:     purchases,
		log:           log,
		countdownTick: countdownTick,
	}
}

type listingsResponse struct {
	Listings []service.ListingView `json:"listings"`
	Filter   entity.Filter         `json:"filter"`
	Count    int                   `json:"count"`
}

type placeBidRequest struct {
	Amount  entity.FormNumber `json:"amount"`
	Contact string            `json:"contact"`
	Email   string            `json:"email"`
}

type addCartItemRequest struct {
	ListingID string `json:"listingId"`
}

func (h *Handler) ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listListings applies the query criteria when any are present and otherwise
// returns the catalog under the session's stored filter.
func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	sid := SessionIDFromContext(r.Context())
	q := r.URL.Query()

	if !q.Has("q") && !q.Has("category") && !q.Has("condition") {
		views, f, err := h.listings.Listings(r.Context(), sid)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, listingsResponse{Listings: views, Filter: f, Count: len(views)})
		return
	}

	f := entity.Filter{
		Query:     q.Get("q"),
		Category:  entity.Category(q.Get("category")),
		Condition: entity.Condition(q.Get("condition")),
	}
	views, err := h.listings.Filter(r.Context(), sid, f)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listingsResponse{Listings: views, Filter: f, Count: len(views)})
}

func (h *Handler) draft(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.listings.DefaultDraft())
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	var d entity.ListingDraft
	if !decodeBody(w, r, &d) {
		return
	}
	view, err := h.listings.CreateListing(r.Context(), SessionIDFromContext(r.Context()), d)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) {
	view, err := h.listings.Listing(r.Context(), SessionIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) placeBid(w http.ResponseWriter, r *http.Request) {
	var req placeBidRequest
	if !decodeBody(w, r, &req) {
		return
	}
	contact := req.Contact
	if contact == "" {
		contact = req.Email
	}
	view, err := h.bids.PlaceBid(r.Context(), SessionIDFromContext(r.Context()), chi.URLParam(r, "id"), string(req.Amount), contact)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.GetCart(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.carts.AddItem(r.Context(), SessionIDFromContext(r.Context()), req.ListingID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.RemoveItem(r.Context(), SessionIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) composePurchaseRequest(w http.ResponseWriter, r *http.Request) {
	view, err := h.purchases.Compose(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) sendPurchaseRequest(w http.ResponseWriter, r *http.Request) {
	view, err := h.purchases.Send(r.Context(), SessionIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, msg)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
