package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
)

const (
	codeInvalidRequestBody = "invalid_request_body"
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeStreamUnsupported  = "stream_unsupported"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrMissingRequiredField),
		errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrInvalidEndTime),
		errors.Is(err, entity.ErrInvalidCategory),
		errors.Is(err, entity.ErrInvalidCondition),
		errors.Is(err, entity.ErrInvalidLogistics),
		errors.Is(err, entity.ErrMissingBidderIdentity):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrAuctionNotBiddable),
		errors.Is(err, entity.ErrNotAnAuction),
		errors.Is(err, entity.ErrBidTooLow),
		errors.Is(err, entity.ErrAuctionEnded):
		return http.StatusConflict
	case errors.Is(err, entity.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrMailUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("Request %s %s failed: %v", r.Method, r.URL.Path, err)
		writeError(w, status, codeInternalError, "internal error")
		return
	}
	writeError(w, status, entity.ErrorReason(err), err.Error())
}
