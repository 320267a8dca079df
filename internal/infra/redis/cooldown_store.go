package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CooldownStore keeps per-user quiz reward cooldowns as TTL'd redis keys.
// The value is the expiry timestamp so callers can surface the remaining
// time; redis expiry removes stale entries on its own.
type CooldownStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewCooldownStore(client *redis.Client) *CooldownStore {
	return &CooldownStore{client: client, clock: time.Now}
}

func (s *CooldownStore) Get(ctx context.Context, userID, rewardID string) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, s.key(userID, rewardID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get cooldown: %w", err)
	}
	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse cooldown expiry: %w", err)
	}
	return expiry, true, nil
}

func (s *CooldownStore) Set(ctx context.Context, userID, rewardID string, d time.Duration) error {
	expiry := s.clock().UTC().Add(d)
	err := s.client.Set(ctx, s.key(userID, rewardID), expiry.Format(time.RFC3339), d).Err()
	if err != nil {
		return fmt.Errorf("set cooldown: %w", err)
	}
	return nil
}

func (s *CooldownStore) Clear(ctx context.Context, userID, rewardID string) error {
	if err := s.client.Del(ctx, s.key(userID, rewardID)).Err(); err != nil {
		return fmt.Errorf("clear cooldown: %w", err)
	}
	return nil
}

func (s *CooldownStore) key(userID, rewardID string) string {
	return "cooldown:" + userID + ":" + rewardID
}
