package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
)

const (
	defaultSendTimeout = 15 * time.Second

	actionFilter        = "filter"
	actionCreateListing = "create_listing"
	actionAddToCart     = "add_to_cart"
	actionPlaceBid      = "place_bid"
	actionSendPurchase  = "send_purchase_request"
	reasonInternalError = "internal_error"
)

// MarketConfig carries the marketplace settings shared by the services.
type MarketConfig struct {
	CommissionRate   float64
	Location         *time.Location
	PlaceholderPhoto string
	MailTo           string
	MailSubject      string
	SendTimeout      time.Duration
}

func (c MarketConfig) withDefaults() MarketConfig {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.PlaceholderPhoto == "" {
		c.PlaceholderPhoto = entity.PlaceholderPhoto
	}
	if c.MailTo == "" {
		c.MailTo = entity.DefaultMailTo
	}
	if c.MailSubject == "" {
		c.MailSubject = entity.DefaultMailSubject
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = defaultSendTimeout
	}
	return c
}

// ListingView is a listing with its auction state as of the read.
type ListingView struct {
	entity.Listing
	Status     *entity.AuctionStatus `json:"status,omitempty"`
	MinimumBid *entity.Money         `json:"minimumBid,omitempty"`
}

func newListingView(l entity.Listing, now time.Time) ListingView {
	v := ListingView{Listing: l}
	if st, ok := l.Status(now); ok {
		minBid := l.Auction.MinimumBid()
		v.Status = &st
		v.MinimumBid = &minBid
	}
	return v
}

func newListingViews(listings []entity.Listing, now time.Time) []ListingView {
	views := make([]ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, newListingView(l, now))
	}
	return views
}

func newUUID() string {
	return uuid.NewString()
}

func publish(ctx context.Context, pub EventPublisher, log logger.Logger, subject string, msg interface{}) {
	if err := pub.Publish(ctx, subject, msg); err != nil {
		log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}

// recordRejection counts user-facing rejections. Infrastructure failures are
// logged where they happen and not counted here.
func recordRejection(mm *metrics.MetricsManager, log logger.Logger, action string, err error) {
	reason := entity.ErrorReason(err)
	if reason == reasonInternalError {
		return
	}
	mm.Rejected(action, reason)
	log.Warnf("Rejected %s: %v", action, err)
}
