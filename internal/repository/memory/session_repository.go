package memory

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/487058267/agent-cross-discipline/pkg/store"
)

// SessionRepository keeps sessions in process memory. Entries never expire;
// a session lives until it is deleted or the process exits.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// No expiration, so no janitor is needed either.
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores a copy of session, replacing any previous value for its id.
func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session.Clone(), cache.NoExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session).Clone(), nil
	}
	return nil, store.ErrSessionNotFound
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

// Count reports the number of cached sessions.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
