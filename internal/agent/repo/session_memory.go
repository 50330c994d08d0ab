package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/foodbook/orderbot/internal/agent/model"
	errx "github.com/foodbook/orderbot/internal/core/error"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process. Sessions are stored
// serialized so callers never share memory with the stored copy.
type MemorySessionRepository struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (r *MemorySessionRepository) Load(_ context.Context, sessionID string) (*model.Session, error) {
	r.mu.Lock()
	e, ok := r.entries[sessionID]
	if ok && r.expired(e) {
		delete(r.entries, sessionID)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return nil, notFound(sessionID)
	}

	var s model.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &s, nil
}

func (r *MemorySessionRepository) Save(_ context.Context, session *model.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	e := memoryEntry{data: b}
	if r.ttl > 0 {
		e.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	r.entries[session.ID] = e
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.entries, sessionID)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt)
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)

func notFound(sessionID string) error {
	return errx.NotFound(fmt.Errorf("%w: %s", model.ErrSessionNotFound, sessionID), errx.SessionNotFoundMessage)
}
