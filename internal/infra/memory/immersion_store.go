package memory

import (
	"context"
	"sync"

	"gengo-bot/internal/domain"
)

// ImmersionStore keeps immersion logs in-process, for tests and
// postgres-less runs.
type ImmersionStore struct {
	mu     sync.RWMutex
	nextID int64
	logs   []domain.ImmersionLog
}

func NewImmersionStore() *ImmersionStore {
	return &ImmersionStore{nextID: 1}
}

func (s *ImmersionStore) Insert(_ context.Context, log *domain.ImmersionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.ID = s.nextID
	s.nextID++
	s.logs = append(s.logs, *log)
	return nil
}

// ListByUser returns the user's logs, newest first. limit <= 0 means all.
func (s *ImmersionStore) ListByUser(_ context.Context, userID string, limit int) ([]domain.ImmersionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ImmersionLog
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].UserID != userID {
			continue
		}
		out = append(out, s.logs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Latest returns the user's most recent log.
func (s *ImmersionStore) Latest(_ context.Context, userID string) (domain.ImmersionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].UserID == userID {
			return s.logs[i], nil
		}
	}
	return domain.ImmersionLog{}, domain.ErrNoLogs
}

func (s *ImmersionStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.logs {
		if l.ID == id {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNoLogs
}

// Totals aggregates per media type for one user.
func (s *ImmersionStore) Totals(_ context.Context, userID string) ([]domain.ImmersionTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byMedia := make(map[domain.MediaType]*domain.ImmersionTotal)
	var order []domain.MediaType
	for _, l := range s.logs {
		if l.UserID != userID {
			continue
		}
		t, ok := byMedia[l.MediaType]
		if !ok {
			t = &domain.ImmersionTotal{MediaType: l.MediaType}
			byMedia[l.MediaType] = t
			order = append(order, l.MediaType)
		}
		t.Amount += int64(l.Amount)
		t.Duration += l.Duration
	}
	out := make([]domain.ImmersionTotal, 0, len(order))
	for _, m := range order {
		out = append(out, *byMedia[m])
	}
	return out, nil
}
