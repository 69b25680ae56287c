package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/service"
)

const expiredEvent = "event: expired\ndata: {\"code\":\"session_expired\"}\n\n"

// streamCountdown pushes the auction status as server-sent events, one per
// tick, until the auction ends or the client goes away. If the session
// expires mid-stream an "expired" event closes it; the stream never starts a
// new session after the first read.
func (h *Handler) streamCountdown(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := SessionIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	status, err := h.bids.AuctionStatus(ctx, sid, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeStreamUnsupported, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeStatusEvent(w, status); err != nil {
		return
	}
	flusher.Flush()
	if status.Ended {
		return
	}

	ticker := time.NewTicker(h.countdownTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debugf("Countdown stream closed by client: SessionID=%s, ListingID=%s", sid, id)
			return
		case <-ticker.C:
			status, err = h.bids.CurrentStatus(ctx, sid, id)
			if errors.Is(err, service.ErrSessionExpired) {
				h.log.Infof("Countdown stream ended, session expired: SessionID=%s, ListingID=%s", sid, id)
				_, _ = fmt.Fprint(w, expiredEvent)
				flusher.Flush()
				return
			}
			if err != nil {
				h.log.Warnf("Countdown stream stopped: SessionID=%s, ListingID=%s: %v", sid, id, err)
				return
			}
			if err := writeStatusEvent(w, status); err != nil {
				return
			}
			flusher.Flush()
			if status.Ended {
				return
			}
		}
	}
}

func writeStatusEvent(w http.ResponseWriter, status entity.AuctionStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: status\ndata: %s\n\n", data)
	return err
}
