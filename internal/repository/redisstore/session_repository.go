// Package redisstore keeps sessions in Redis as JSON values so several
// service instances can share them.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/487058267/agent-cross-discipline/pkg/store"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "lesson:session:"

type SessionRepository struct {
	rdb redis.Cmdable
}

func NewSessionRepository(rdb redis.Cmdable) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func sessionKey(id string) string {
	return KeyPrefix + id
}

// Save writes session without expiration, replacing any previous value.
func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(session.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set session %s: %w", session.ID, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*store.Session, error) {
	payload, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}
	return decodeSession(payload)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

func encodeSession(session *store.Session) ([]byte, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	return payload, nil
}

func decodeSession(payload []byte) (*store.Session, error) {
	var s store.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
