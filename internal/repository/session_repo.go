package repository

import (
	"context"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
)

// SessionRepository stores marketplace sessions. Get returns ErrNotFound for
// unknown or expired sessions; Save refreshes the expiry.
//
// Save is optimistic: it succeeds only while the stored version still equals
// m.Version (zero for a session not stored yet), then bumps m.Version. A lost
// race returns ErrConflict.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*entity.Marketplace, error)
	Save(ctx context.Context, m *entity.Marketplace, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
