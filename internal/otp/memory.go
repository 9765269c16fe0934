package otp

import (
	"context"
	"sync"
	"time"

	"github.com/mohdfarhan7/michelanglo/internal/domain"
)

// MemoryStore keeps challenges in a mutex-guarded map. It is the default
// backend when no Redis URL is configured. Expired entries linger until
// PurgeExpired runs or the identity is touched again, which is harmless
// because Get callers check expiry themselves.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]Challenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]Challenge)}
}

func (s *MemoryStore) Put(_ context.Context, identity string, ch Challenge) error {
	s.mu.Lock()
	s.challenges[identity] = ch
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, identity string) (Challenge, error) {
	s.mu.RLock()
	ch, ok := s.challenges[identity]
	s.mu.RUnlock()
	if !ok {
		return Challenge{}, domain.ErrOTPNotFound
	}
	return ch, nil
}

func (s *MemoryStore) Delete(_ context.Context, identity string) error {
	s.mu.Lock()
	delete(s.challenges, identity)
	s.mu.Unlock()
	return nil
}

// PurgeExpired drops every challenge whose expiry is at or before now and
// returns the number removed. Scheduled periodically from cmd/server.
func (s *MemoryStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for identity, ch := range s.challenges {
		if !ch.ExpiresAt.After(now) {
			delete(s.challenges, identity)
			removed++
		}
	}
	return removed
}
