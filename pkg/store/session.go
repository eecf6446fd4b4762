package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/487058267/agent-cross-discipline/pkg/apierr"
	"github.com/487058267/agent-cross-discipline/pkg/lesson"
	"github.com/487058267/agent-cross-discipline/pkg/lesson/segmenter"
)

// IDLength is the number of hex characters kept from the digest.
const IDLength = 16

const (
	ActionCreate = "create"
	ActionModify = "modify"
)

// ErrSessionNotFound is returned by SessionStore.Get for unknown ids.
var ErrSessionNotFound = fmt.Errorf("%w: session", apierr.ErrNotFound)

// HistoryEntry records one action taken on a session. Entries are only
// appended, never rewritten.
type HistoryEntry struct {
	ID                string            `json:"id"`
	ActionKind        string            `json:"action_kind"`
	Inputs            map[string]string `json:"inputs"`
	ResultingDocument string            `json:"resulting_document"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Session is the cached state of one lesson plan.
type Session struct {
	ID              string             `json:"id"`
	CurrentDocument string             `json:"current_document"`
	Sections        segmenter.Sections `json:"sections"`
	History         []HistoryEntry     `json:"history"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Clone returns a deep copy so callers can mutate without touching the
// stored value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Sections != nil {
		out.Sections = make(segmenter.Sections, len(s.Sections))
		copy(out.Sections, s.Sections)
	}
	if s.History != nil {
		out.History = make([]HistoryEntry, len(s.History))
		for i, h := range s.History {
			if h.Inputs != nil {
				inputs := make(map[string]string, len(h.Inputs))
				for k, v := range h.Inputs {
					inputs[k] = v
				}
				h.Inputs = inputs
			}
			out.History[i] = h
		}
	}
	return &out
}

// SessionStore persists sessions keyed by id.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// DeriveID digests the normalized parameters. Equal requests map to equal ids.
func DeriveID(params lesson.Params) (string, error) {
	payload, err := json.Marshal(params.Normalize())
	if err != nil {
		return "", fmt.Errorf("encode session params: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])[:IDLength], nil
}
