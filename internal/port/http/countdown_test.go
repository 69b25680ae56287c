package http

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown_EndedAuctionSendsOneEvent(t *testing.T) {
	f := newAPIFixture(t, false)
	f.do(t, http.MethodGet, "/api/listings", "")
	f.clock.Advance(3 * time.Hour)

	rec := f.do(t, http.MethodGet, "/api/listings/2/countdown", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "event: status\n"))
	assert.Contains(t, rec.Body.String(), `"label":"Auction ended – Reserve NOT met"`)
}

func TestCountdown_StreamsUntilEnd(t *testing.T) {
	f := newAPIFixture(t, false)
	f.do(t, http.MethodGet, "/api/listings", "")
	f.clock.Advance(2*time.Hour - 5*time.Second)

	go func() {
		time.Sleep(30 * time.Millisecond)
		f.clock.Advance(10 * time.Second)
	}()

	rec := f.do(t, http.MethodGet, "/api/listings/2/countdown", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Greater(t, strings.Count(body, "event: status\n"), 1)
	assert.Contains(t, body, `"label":"Ends in 00:00:05"`)
	assert.True(t, strings.HasSuffix(body, "\"label\":\"Auction ended – Reserve NOT met\"}\n\n"), body)
}

func TestCountdown_ExpiredSessionClosesStream(t *testing.T) {
	f := newAPIFixture(t, false)
	f.do(t, http.MethodGet, "/api/listings", "")

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = f.repo.Delete(context.Background(), apiSession)
	}()

	rec := f.do(t, http.MethodGet, "/api/listings/2/countdown", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasSuffix(body, "event: expired\ndata: {\"code\":\"session_expired\"}\n\n"), body)
	assert.NotContains(t, body, "Auction ended")
	// the stream must not have started a replacement session
	assert.Zero(t, f.repo.Len())
}

func TestCountdown_RejectsFixedPriceListing(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/api/listings/1/countdown", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_an_auction", decode[errorResponse](t, rec).Code)
}
