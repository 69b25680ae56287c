package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/joshd12blip/Cleanout-Market/internal/domain/entity"
	"github.com/joshd12blip/Cleanout-Market/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "market_session:"
)

type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository stores each session as one JSON document whose key
// expires with the session.
func NewSessionRepository(client *redis.Client) repository.SessionRepository {
	return &sessionRepository{
		client: client,
	}
}

func (r *sessionRepository) getSessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *sessionRepository) Get(ctx context.Context, sessionID string) (*entity.Marketplace, error) {
	key := r.getSessionKey(sessionID)
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session %s from redis: %w", sessionID, err)
	}

	var m entity.Marketplace
	if err := json.Unmarshal(val, &m); err != nil {
		_ = r.Delete(ctx, sessionID)
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &m, nil
}

func (r *sessionRepository) Save(ctx context.Context, m *entity.Marketplace, ttl time.Duration) error {
	if m == nil || m.SessionID == "" {
		return fmt.Errorf("%w: cannot save nil session or session with empty id", repository.ErrInvalidEntity)
	}

	key := r.getSessionKey(m.SessionID)
	next := *m
	next.Version++
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", m.SessionID, err)
	}

	// WATCH makes EXEC fail if another replica writes the key in between.
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if stored != m.Version {
			return fmt.Errorf("%w: session %s is at version %d, not %d", repository.ErrConflict, m.SessionID, stored, m.Version)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, key)
	switch {
	case err == nil:
		m.Version = next.Version
		return nil
	case errors.Is(err, repository.ErrConflict):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: session %s changed during save", repository.ErrConflict, m.SessionID)
	default:
		return fmt.Errorf("failed to save session %s to redis: %w", m.SessionID, err)
	}
}

// storedVersion reads only the version of the watched document. A missing or
// undecodable document counts as version zero.
func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int64, error) {
	val, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var doc struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(val, &doc); err != nil {
		return 0, nil
	}
	return doc.Version, nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.getSessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s from redis: %w", sessionID, err)
	}
	return nil
}
