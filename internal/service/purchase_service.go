package service

import (
	"context"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
)

const (
	deliveryComposed = "composed"
	deliveryEmailed  = "emailed"
)

// MailSender delivers a composed message. The SMTP sender satisfies it.
type MailSender interface {
	Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error
}

type PurchaseRequestView struct {
	entity.PurchaseRequest
	MailtoURL string       `json:"mailtoUrl"`
	Quote     entity.Quote `json:"quote"`
	Sent      bool         `json:"sent"`
}

type PurchaseService interface {
	// Compose renders the purchase request for the current cart. It never
	// performs network I/O.
	Compose(ctx context.Context, sessionID string) (*PurchaseRequestView, error)
	// Send composes the request and hands it to the mail sender.
	Send(ctx context.Context, sessionID string) (*PurchaseRequestView, error)
}

type purchaseService struct {
	sessions  *SessionManager
	mailer    MailSender
	publisher EventPublisher
	log       logger.Logger
	metrics   *metrics.MetricsManager
	cfg       MarketConfig
}

// NewPurchaseService builds the composer. A nil mailer disables Send.
func NewPurchaseService(
	sessions *SessionManager,
	mailer MailSender,
	publisher EventPublisher,
	log logger.Logger,
	mm *metrics.MetricsManager,
	cfg MarketConfig,
) PurchaseService {
	return &purchaseService{
		sessions:  sessions,
		mailer:    mailer,
		publisher: publisher,
		log:       log,
		metrics:   mm,
		cfg:       cfg.withDefaults(),
	}
}

func (s *purchaseService) compose(ctx context.Context, sessionID string) (*PurchaseRequestView, []string, error) {
	m, err := s.sessions.View(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	q := m.Quote(s.cfg.CommissionRate)
	req := entity.ComposePurchaseRequest(q, entity.MailSettings{To: s.cfg.MailTo, Subject: s.cfg.MailSubject})
	return &PurchaseRequestView{
		PurchaseRequest: req,
		MailtoURL:       req.MailtoURL(),
		Quote:           q,
	}, m.Cart.ListingIDs, nil
}

func (s *purchaseService) Compose(ctx context.Context, sessionID string) (*PurchaseRequestView, error) {
	view, _, err := s.compose(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.metrics.PurchaseRequestsTotal.WithLabelValues(deliveryComposed).Inc()
	s.log.Debugf("Composed purchase request: SessionID=%s, Lines=%d, Total=%s", sessionID, len(view.Quote.Lines), view.Quote.Total)
	return view, nil
}

func (s *purchaseService) Send(ctx context.Context, sessionID string) (*PurchaseRequestView, error) {
	s.log.Infof("Sending purchase request: SessionID=%s", sessionID)

	if s.mailer == nil {
		recordRejection(s.metrics, s.log, actionSendPurchase, entity.ErrMailUnavailable)
		return nil, entity.ErrMailUnavailable
	}

	view, ids, err := s.compose(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Quote.Lines) == 0 {
		recordRejection(s.metrics, s.log, actionSendPurchase, entity.ErrEmptyCart)
		return nil, entity.ErrEmptyCart
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()
	if err := s.mailer.Send(sendCtx, []string{view.To}, view.Subject, "", view.Body); err != nil {
		s.log.Errorf("Failed to send purchase request for session %s: %v", sessionID, err)
		return nil, err
	}

	view.Sent = true
	s.metrics.PurchaseRequestsTotal.WithLabelValues(deliveryEmailed).Inc()
	publish(ctx, s.publisher, s.log, SubjectPurchaseRequested, PurchaseRequestedEvent{
		SessionID:   sessionID,
		ListingIDs:  ids,
		Subtotal:    view.Quote.Subtotal,
		Commission:  view.Quote.Commission,
		Total:       view.Quote.Total,
		RequestedAt: s.sessions.Now(),
	})
	return view, nil
}
