package service

import (
	"context"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
)

const (
	SubjectListingCreated    = "listing.created"
	SubjectBidPlaced         = "auction.bid.placed"
	SubjectPurchaseRequested = "purchase.requested"
)

// EventPublisher is satisfied by the NATS publisher and its no-op variant.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, message interface{}) error
}

type ListingCreatedEvent struct {
	SessionID string          `json:"sessionId"`
	ListingID string          `json:"listingId"`
	Title     string          `json:"title"`
	SaleType  entity.SaleType `json:"saleType"`
	Category  entity.Category `json:"category"`
	CreatedAt time.Time       `json:"createdAt"`
}

type BidPlacedEvent struct {
	SessionID  string       `json:"sessionId"`
	ListingID  string       `json:"listingId"`
	Amount     entity.Money `json:"amount"`
	ReserveMet bool         `json:"reserveMet"`
	PlacedAt   time.Time    `json:"placedAt"`
}

type PurchaseRequestedEvent struct {
	SessionID   string       `json:"sessionId"`
	ListingIDs  []string     `json:"listingIds"`
	Subtotal    entity.Money `json:"subtotal"`
	Commission  entity.Money `json:"commission"`
	Total       entity.Money `json:"total"`
	RequestedAt time.Time    `json:"requestedAt"`
}
