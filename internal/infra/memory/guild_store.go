package memory

import (
	"context"
	"sort"
	"sync"

	"gengo-bot/internal/domain"
)

// GuildStore is an in-memory guild configuration store, used in tests and
// when no postgres is configured.
type GuildStore struct {
	mu      sync.RWMutex
	configs map[string]domain.GuildConfig
	rewards map[string][]domain.QuizReward
}

func NewGuildStore() *GuildStore {
	return &GuildStore{
		configs: make(map[string]domain.GuildConfig),
		rewards: make(map[string][]domain.QuizReward),
	}
}

func (s *GuildStore) GuildConfig(_ context.Context, guildID string) (domain.GuildConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[guildID]
	if !ok {
		return domain.GuildConfig{}, domain.ErrGuildNotConfigured
	}
	return cfg, nil
}

func (s *GuildStore) PutGuildConfig(_ context.Context, cfg domain.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.GuildID] = cfg
	return nil
}

func (s *GuildStore) GuildRewards(_ context.Context, guildID string) ([]domain.QuizReward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rewards := make([]domain.QuizReward, len(s.rewards[guildID]))
	copy(rewards, s.rewards[guildID])
	sort.Slice(rewards, func(i, j int) bool { return rewards[i].Sort < rewards[j].Sort })
	return rewards, nil
}

func (s *GuildStore) RewardByName(_ context.Context, guildID, name string) (domain.QuizReward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rewards[guildID] {
		if r.Name == name {
			return r, nil
		}
	}
	return domain.QuizReward{}, domain.ErrRewardNotFound
}

func (s *GuildStore) PutReward(_ context.Context, r domain.QuizReward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.rewards[r.GuildID] {
		if existing.RoleID == r.RoleID {
			s.rewards[r.GuildID][i] = r
			return nil
		}
	}
	s.rewards[r.GuildID] = append(s.rewards[r.GuildID], r)
	return nil
}
