package service

import (
	"context"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
)

// CartView is the cart with its listings resolved and priced.
type CartView struct {
	ListingIDs []string         `json:"listingIds"`
	Items      []entity.Listing `json:"items"`
	Quote      entity.Quote     `json:"quote"`
}

type CartService interface {
	AddItem(ctx context.Context, sessionID, listingID string) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID, listingID string) (*CartView, error)
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
}

type cartService struct {
	sessions *SessionManager
	log      logger.Logger
	metrics  *metrics.MetricsManager
	rate     float64
}

func NewCartService(
	sessions *SessionManager,
	log logger.Logger,
	mm *metrics.MetricsManager,
	cfg MarketConfig,
) CartService {
	return &cartService{
		sessions: sessions,
		log:      log,
		metrics:  mm,
		rate:     cfg.CommissionRate,
	}
}

func (s *cartService) view(m *entity.Marketplace) *CartView {
	ids := make([]string, len(m.Cart.ListingIDs))
	copy(ids, m.Cart.ListingIDs)
	return &CartView{
		ListingIDs: ids,
		Items:      m.CartListings(),
		Quote:      m.Quote(s.rate),
	}
}

func (s *cartService) AddItem(ctx context.Context, sessionID, listingID string) (*CartView, error) {
	s.log.Infof("Adding item to cart: SessionID=%s, ListingID=%s", sessionID, listingID)

	var changed bool
	m, err := s.sessions.Update(ctx, sessionID, func(m *entity.Marketplace) error {
		var errAdd error
		changed, errAdd = m.AddToCart(listingID)
		return errAdd
	})
	if err != nil {
		recordRejection(s.metrics, s.log, actionAddToCart, err)
		return nil, err
	}
	if changed {
		s.metrics.CartItemsAddedTotal.Inc()
	} else {
		s.log.Debugf("Listing %s already in cart for session %s", listingID, sessionID)
	}
	return s.view(m), nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, listingID string) (*CartView, error) {
	s.log.Infof("Removing item from cart: SessionID=%s, ListingID=%s", sessionID, listingID)

	m, err := s.sessions.Update(ctx, sessionID, func(m *entity.Marketplace) error {
		m.RemoveFromCart(listingID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(m), nil
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	m, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(m), nil
}
