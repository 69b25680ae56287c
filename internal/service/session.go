package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/clock"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/metrics"
	"github.com/joshd12blip/Cleanout-Market/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultSessionTTL = 2 * time.Hour
	lockStripes       = 64
	maxSaveAttempts   = 3
)

// ErrSessionExpired is returned by reads that must not start a new session.
var ErrSessionExpired = errors.New("session expired")

var tracer = otel.Tracer("github.com/joshd12blip/Cleanout-Market/internal/service")

// SessionManager loads, seeds and stores marketplace sessions. Actions on one
// session run one at a time; the stripe lock is held across load, mutate and
// save.
type SessionManager struct {
	repo    repository.SessionRepository
	clock   clock.Clock
	log     logger.Logger
	metrics *metrics.MetricsManager
	ttl     time.Duration
	locks   [lockStripes]sync.Mutex
}

func NewSessionManager(
	repo repository.SessionRepository,
	clk clock.Clock,
	log logger.Logger,
	mm *metrics.MetricsManager,
	ttl time.Duration,
) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{
		repo:    repo,
		clock:   clk,
		log:     log,
		metrics: mm,
		ttl:     ttl,
	}
}

func (s *SessionManager) lockFor(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%lockStripes]
}

// Update runs fn against the session, seeding it on first use. The session
// is stored again only when fn succeeds, so a rejected action leaves nothing
// behind. A freshly seeded session is kept either way. When another writer
// stored the session first, fn runs again on the fresh copy.
func (s *SessionManager) Update(ctx context.Context, sessionID string, fn func(m *entity.Marketplace) error) (*entity.Marketplace, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	ctx, span := tracer.Start(ctx, "SessionManager.Update")
	defer span.End()

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	for attempt := 1; ; attempt++ {
		m, created, err := s.load(ctx, sessionID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}

		if fnErr := fn(m); fnErr != nil {
			if created {
				if err := s.save(ctx, entity.NewMarketplace(sessionID, m.StartedAt)); err != nil {
					s.log.Errorf("Failed to store new session %s: %v", sessionID, err)
				}
			}
			return nil, fnErr
		}

		err = s.save(ctx, m)
		if err == nil {
			span.SetAttributes(attribute.Int("session.save_attempts", attempt))
			return m, nil
		}
		if !errors.Is(err, repository.ErrConflict) || attempt >= maxSaveAttempts {
			span.RecordError(err)
			return nil, err
		}
		s.log.Warnf("Session %s changed concurrently, retrying (attempt %d)", sessionID, attempt)
	}
}

// View returns the session for reading and refreshes its expiry.
func (s *SessionManager) View(ctx context.Context, sessionID string) (*entity.Marketplace, error) {
	return s.Update(ctx, sessionID, func(*entity.Marketplace) error { return nil })
}

// Lookup reads a stored session without seeding or refreshing it. An unknown
// or expired session yields ErrSessionExpired.
func (s *SessionManager) Lookup(ctx context.Context, sessionID string) (*entity.Marketplace, error) {
	m, err := s.repo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionExpired, sessionID)
	}
	if err != nil {
		s.log.Errorf("Error loading session %s: %v", sessionID, err)
		return nil, fmt.Errorf("could not load session: %w", err)
	}
	return m, nil
}

// Peek reads the session without refreshing its expiry. Unknown sessions are
// seeded as in View.
func (s *SessionManager) Peek(ctx context.Context, sessionID string) (*entity.Marketplace, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	m, err := s.repo.Get(ctx, sessionID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Errorf("Error loading session %s: %v", sessionID, err)
		return nil, fmt.Errorf("could not load session: %w", err)
	}
	return s.View(ctx, sessionID)
}

func (s *SessionManager) Now() time.Time {
	return s.clock.Now()
}

func (s *SessionManager) load(ctx context.Context, sessionID string) (*entity.Marketplace, bool, error) {
	m, err := s.repo.Get(ctx, sessionID)
	if err == nil {
		return m, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Errorf("Error loading session %s: %v", sessionID, err)
		return nil, false, fmt.Errorf("could not load session: %w", err)
	}

	s.log.Infof("Starting new marketplace session %s", sessionID)
	s.metrics.SessionsStartedTotal.Inc()
	return entity.NewMarketplace(sessionID, s.clock.Now()), true, nil
}

func (s *SessionManager) save(ctx context.Context, m *entity.Marketplace) error {
	if err := s.repo.Save(ctx, m, s.ttl); err != nil {
		s.log.Errorf("Error saving session %s: %v", m.SessionID, err)
		return fmt.Errorf("could not save session: %w", err)
	}
	return nil
}
