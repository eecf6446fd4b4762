// Package session coordinates reads and writes of lesson sessions on top of a
// store.SessionStore.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/487058267/agent-cross-discipline/pkg/lesson/segmenter"
	"github.com/487058267/agent-cross-discipline/pkg/store"
)

// Manager owns session lifecycle and per-session locking. Locks are local to
// the process, even when the backing store is shared.
type Manager struct {
	store store.SessionStore
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(s store.SessionStore) *Manager {
	return &Manager{
		store: s,
		now:   time.Now,
		locks: make(map[string]*keyLock),
	}
}

// Lock blocks until the caller holds the lock for id and returns the unlock
// function. Hold it across read, generate and write.
func (m *Manager) Lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &keyLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			m.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(m.locks, id)
			}
			m.mu.Unlock()
		})
	}
}

// Create stores a fresh session under id, replacing any existing one, with
// entry as its first history record.
func (m *Manager) Create(ctx context.Context, id, document string, sections segmenter.Sections, entry store.HistoryEntry) (*store.Session, error) {
	now := m.now()
	sess := &store.Session{
		ID:              id,
		CurrentDocument: document,
		Sections:        sections,
		History:         []store.HistoryEntry{m.stamp(entry, now)},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*store.Session, error) {
	return m.store.Get(ctx, id)
}

// Update replaces the document and sections of an existing session and appends
// entry to its history.
func (m *Manager) Update(ctx context.Context, id, document string, sections segmenter.Sections, entry store.HistoryEntry) (*store.Session, error) {
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := m.now()
	sess.CurrentDocument = document
	sess.Sections = sections
	sess.History = append(sess.History, m.stamp(entry, now))
	sess.UpdatedAt = now
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *Manager) stamp(entry store.HistoryEntry, now time.Time) store.HistoryEntry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	return entry
}
