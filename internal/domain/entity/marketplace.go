package entity

import (
	"fmt"
	"strings"
	"time"
)

// Marketplace is the state of one browsing session: its catalog (newest
// first), cart and current filter criteria. Listings is never mutated in
// place; every change installs a new slice.
type Marketplace struct {
	SessionID string    `json:"sessionId"`
	Listings  []Listing `json:"listings"`
	Cart      Cart      `json:"cart"`
	Filter    Filter    `json:"filter"`
	StartedAt time.Time `json:"startedAt"`
	// Version counts stored revisions, see repository.SessionRepository.
	Version int64 `json:"version"`
}

// NewMarketplace starts a session from the seed catalog.
func NewMarketplace(sessionID string, now time.Time) *Marketplace {
	return &Marketplace{
		SessionID: sessionID,
		Listings:  SeedListings(now),
		Cart:      Cart{ListingIDs: []string{}},
		StartedAt: now,
	}
}

func (m *Marketplace) index(id string) int {
	for i := range m.Listings {
		if m.Listings[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Marketplace) Listing(id string) (Listing, error) {
	i := m.index(id)
	if i < 0 {
		return Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	return m.Listings[i], nil
}

func (m *Marketplace) Exists(id string) bool {
	return m.index(id) >= 0
}

// Visible is the catalog narrowed by the stored filter.
func (m *Marketplace) Visible() []Listing {
	return FilterListings(m.Listings, m.Filter)
}

// CreateListing validates the draft and prepends the resulting listing.
func (m *Marketplace) CreateListing(d ListingDraft, opts BuildOptions) (Listing, error) {
	opts.Exists = m.Exists
	l, err := d.Build(opts)
	if err != nil {
		return Listing{}, err
	}
	listings := make([]Listing, 0, len(m.Listings)+1)
	listings = append(listings, l)
	m.Listings = append(listings, m.Listings...)
	return l, nil
}

// AddToCart puts a fixed-price listing in the cart. It reports whether the
// cart changed; adding an item twice is not an error.
func (m *Marketplace) AddToCart(id string) (bool, error) {
	l, err := m.Listing(id)
	if err != nil {
		return false, err
	}
	if l.IsAuction() {
		return false, fmt.Errorf("%w: this is an auction item, place a bid instead", ErrAuctionNotBiddable)
	}
	return m.Cart.Add(id), nil
}

func (m *Marketplace) RemoveFromCart(id string) bool {
	return m.Cart.Remove(id)
}

// CartListings resolves the cart ids in cart order, skipping ids that no
// longer resolve.
func (m *Marketplace) CartListings() []Listing {
	out := make([]Listing, 0, m.Cart.Len())
	for _, id := range m.Cart.ListingIDs {
		if l, err := m.Listing(id); err == nil {
			out = append(out, l)
		}
	}
	return out
}

func (m *Marketplace) Quote(rate float64) Quote {
	return QuoteCart(m.CartListings(), rate)
}

// PlaceBid records a bid on an open auction. On any rejection the
// marketplace is left exactly as it was.
func (m *Marketplace) PlaceBid(id string, rawAmount string, contact string, now time.Time) (Listing, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return Listing{}, fmt.Errorf("%w: add your email and a valid bid", ErrMissingBidderIdentity)
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return Listing{}, err
	}
	if amount == nil || *amount <= 0 {
		return Listing{}, fmt.Errorf("%w: add your email and a valid bid", ErrInvalidAmount)
	}

	i := m.index(id)
	if i < 0 {
		return Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	current := m.Listings[i]
	if !current.IsAuction() || current.Auction == nil {
		return Listing{}, fmt.Errorf("%w: %s", ErrNotAnAuction, id)
	}

	updated, err := current.withBid(*amount, contact, now)
	if err != nil {
		return Listing{}, err
	}

	listings := make([]Listing, len(m.Listings))
	copy(listings, m.Listings)
	listings[i] = updated
	m.Listings = listings
	return updated, nil
}

// AuctionStatus reports the live status of an auction listing.
func (m *Marketplace) AuctionStatus(id string, now time.Time) (AuctionStatus, error) {
	l, err := m.Listing(id)
	if err != nil {
		return AuctionStatus{}, err
	}
	st, ok := l.Status(now)
	if !ok {
		return AuctionStatus{}, fmt.Errorf("%w: %s", ErrNotAnAuction, id)
	}
	return st, nil
}

// ApplyFilter stores new criteria and returns the listings they select.
func (m *Marketplace) ApplyFilter(f Filter) ([]Listing, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	m.Filter = f
	return m.Visible(), nil
}
