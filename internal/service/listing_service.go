package service

import (
	"context"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
)

type ListingService interface {
	// Listings returns the catalog narrowed by the session's stored filter.
	Listings(ctx context.Context, sessionID string) ([]ListingView, entity.Filter, error)
	// Filter stores new criteria and returns what they select.
	Filter(ctx context.Context, sessionID string, f entity.Filter) ([]ListingView, error)
	Listing(ctx context.Context, sessionID, listingID string) (ListingView, error)
	CreateListing(ctx context.Context, sessionID string, draft entity.ListingDraft) (ListingView, error)
	DefaultDraft() entity.ListingDraft
}

type listingService struct {
	sessions  *SessionManager
	publisher EventPublisher
	log       logger.Logger
	metrics   *metrics.MetricsManager
	cfg       MarketConfig
	newID     func() string
}

func NewListingService(
	sessions *SessionManager,
	publisher EventPublisher,
	log logger.Logger,
	mm *metrics.MetricsManager,
	cfg MarketConfig,
) ListingService {
	return &listingService{
		sessions:  sessions,
		publisher: publisher,
		log:       log,
		metrics:   mm,
		cfg:       cfg.withDefaults(),
		newID:     newUUID,
	}
}

func (s *listingService) Listings(ctx context.Context, sessionID string) ([]ListingView, entity.Filter, error) {
	m, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return nil, entity.Filter{}, err
	}
	return newListingViews(m.Visible(), s.sessions.Now()), m.Filter, nil
}

func (s *listingService) Filter(ctx context.Context, sessionID string, f entity.Filter) ([]ListingView, error) {
	s.log.Debugf("Filtering listings: SessionID=%s, Query=%q, Category=%q, Condition=%q", sessionID, f.Query, f.Category, f.Condition)

	var visible []entity.Listing
	_, err := s.sessions.Update(ctx, sessionID, func(m *entity.Marketplace) error {
		var errApply error
		visible, errApply = m.ApplyFilter(f)
		return errApply
	})
	if err != nil {
		recordRejection(s.metrics, s.log, actionFilter, err)
		return nil, err
	}
	return newListingViews(visible, s.sessions.Now()), nil
}

func (s *listingService) Listing(ctx context.Context, sessionID, listingID string) (ListingView, error) {
	m, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return ListingView{}, err
	}
	l, err := m.Listing(listingID)
	if err != nil {
		return ListingView{}, err
	}
	return newListingView(l, s.sessions.Now()), nil
}

func (s *listingService) CreateListing(ctx context.Context, sessionID string, draft entity.ListingDraft) (ListingView, error) {
	s.log.Infof("Creating listing: SessionID=%s, Title=%q, SaleType=%s", sessionID, draft.Title, draft.SaleType)

	now := s.sessions.Now()
	var created entity.Listing
	_, err := s.sessions.Update(ctx, sessionID, func(m *entity.Marketplace) error {
		var errCreate error
		created, errCreate = m.CreateListing(draft, entity.BuildOptions{
			Now:              now,
			Location:         s.cfg.Location,
			PlaceholderPhoto: s.cfg.PlaceholderPhoto,
			NewID:            s.newID,
		})
		return errCreate
	})
	if err != nil {
		recordRejection(s.metrics, s.log, actionCreateListing, err)
		return ListingView{}, err
	}

	s.metrics.ListingsCreatedTotal.Inc()
	s.log.Infof("Listing created: SessionID=%s, ListingID=%s", sessionID, created.ID)
	publish(ctx, s.publisher, s.log, SubjectListingCreated, ListingCreatedEvent{
		SessionID: sessionID,
		ListingID: created.ID,
		Title:     created.Title,
		SaleType:  created.SaleType,
		Category:  created.Category,
		CreatedAt: created.CreatedAt,
	})
	return newListingView(created, now), nil
}

func (s *listingService) DefaultDraft() entity.ListingDraft {
	return entity.DefaultDraft()
}
