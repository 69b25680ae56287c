package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/clock"
	"github.com/joshd12blip/Cleanout-Market/internal/platform/logger"
	"github.com/joshd12blip/Cleanout-Market/internal/repository"
)

type sessionEntry struct {
	market    entity.Marketplace
	expiresAt time.Time
}

// SessionRepository keeps sessions in process memory. Marketplace slices are
// replaced rather than mutated, so a struct copy is a safe snapshot.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	clock    clock.Clock
	log      logger.Logger
}

func NewSessionRepository(clk clock.Clock, log logger.Logger) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]sessionEntry),
		clock:    clk,
		log:      log,
	}
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*entity.Marketplace, error) {
	r.mu.RLock()
	entry, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.expired(entry) {
		r.mu.Lock()
		if current, ok := r.sessions[sessionID]; ok && r.expired(current) {
			delete(r.sessions, sessionID)
		}
		r.mu.Unlock()
		return nil, repository.ErrNotFound
	}
	m := entry.market
	return &m, nil
}

func (r *SessionRepository) Save(ctx context.Context, m *entity.Marketplace, ttl time.Duration) error {
	if m == nil || m.SessionID == "" {
		return fmt.Errorf("%w: cannot save nil session or session with empty id", repository.ErrInvalidEntity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var stored int64
	if current, ok := r.sessions[m.SessionID]; ok && !r.expired(current) {
		stored = current.market.Version
	}
	if stored != m.Version {
		return fmt.Errorf("%w: session %s is at version %d, not %d", repository.ErrConflict, m.SessionID, stored, m.Version)
	}

	m.Version++
	entry := sessionEntry{market: *m}
	if ttl > 0 {
		entry.expiresAt = r.clock.Now().Add(ttl)
	}
	r.sessions[m.SessionID] = entry
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (r *SessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if r.expired(entry) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (r *SessionRepository) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debugf("Session sweeper removed %d expired sessions", n)
			}
		}
	}
}

func (r *SessionRepository) expired(e sessionEntry) bool {
	return !e.expiresAt.IsZero() && !r.clock.Now().Before(e.expiresAt)
}
