package memory

import (
	"context"
	"sync"
	"time"
)

// CooldownStore is an in-memory cooldown tracker. Expired entries are
// dropped lazily on read.
type CooldownStore struct {
	mu      sync.Mutex
	clock   func() time.Time
	entries map[string]time.Time
}

func NewCooldownStore() *CooldownStore {
	return &CooldownStore{
		clock:   time.Now,
		entries: make(map[string]time.Time),
	}
}

// NewCooldownStoreWithClock is test-only for deterministic expiries.
func NewCooldownStoreWithClock(now func() time.Time) *CooldownStore {
	return &CooldownStore{
		clock:   now,
		entries: make(map[string]time.Time),
	}
}

func (s *CooldownStore) Get(_ context.Context, userID, rewardID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[userID+":"+rewardID]
	if !ok {
		return time.Time{}, false, nil
	}
	if !expiry.After(s.clock()) {
		delete(s.entries, userID+":"+rewardID)
		return time.Time{}, false, nil
	}
	return expiry, true, nil
}

func (s *CooldownStore) Set(_ context.Context, userID, rewardID string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID+":"+rewardID] = s.clock().Add(d)
	return nil
}

func (s *CooldownStore) Clear(_ context.Context, userID, rewardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID+":"+rewardID)
	return nil
}
