package service

import (
	"context"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
)

type BidService interface {
	PlaceBid(ctx context.Context, sessionID, listingID, amount, contact string) (ListingView, error)
	// AuctionStatus reads the session without storing it again.
	AuctionStatus(ctx context.Context, sessionID, listingID string) (entity.AuctionStatus, error)
	// CurrentStatus is AuctionStatus for a session that must already exist.
	// It returns ErrSessionExpired instead of starting a new session.
	CurrentStatus(ctx context.Context, sessionID, listingID string) (entity.AuctionStatus, error)
}

type bidService struct {
	sessions  *SessionManager
	publisher EventPublisher
	log       logger.Logger
	metrics   *metrics.MetricsManager
}

func NewBidService(
	sessions *SessionManager,
	publisher EventPublisher,
	log logger.Logger,
	mm *metrics.MetricsManager,
) BidService {
	return &bidService{
		sessions:  sessions,
		publisher: publisher,
		log:       log,
		metrics:   mm,
	}
}

func (s *bidService) PlaceBid(ctx context.Context, sessionID, listingID, amount, contact string) (ListingView, error) {
	s.log.Infof("Placing bid: SessionID=%s, ListingID=%s, Amount=%q", sessionID, listingID, amount)

	now := s.sessions.Now()
	var updated entity.Listing
	_, err := s.sessions.Update(ctx, sessionID, func(m *entity.Marketplace) error {
		var errBid error
		updated, errBid = m.PlaceBid(listingID, amount, contact, now)
		return errBid
	})
	if err != nil {
		recordRejection(s.metrics, s.log, actionPlaceBid, err)
		return ListingView{}, err
	}

	s.metrics.BidsPlacedTotal.Inc()
	s.log.Infof("Bid accepted: SessionID=%s, ListingID=%s, CurrentBid=%s", sessionID, listingID, updated.Auction.CurrentBid)
	publish(ctx, s.publisher, s.log, SubjectBidPlaced, BidPlacedEvent{
		SessionID:  sessionID,
		ListingID:  listingID,
		Amount:     updated.Auction.CurrentBid,
		ReserveMet: updated.Auction.ReserveMet(),
		PlacedAt:   now,
	})
	return newListingView(updated, now), nil
}

func (s *bidService) AuctionStatus(ctx context.Context, sessionID, listingID string) (entity.AuctionStatus, error) {
	m, err := s.sessions.Peek(ctx, sessionID)
	if err != nil {
		return entity.AuctionStatus{}, err
	}
	return m.AuctionStatus(listingID, s.sessions.Now())
}

func (s *bidService) CurrentStatus(ctx context.Context, sessionID, listingID string) (entity.AuctionStatus, error) {
	m, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil {
		return entity.AuctionStatus{}, err
	}
	return m.AuctionStatus(listingID, s.sessions.Now())
}
