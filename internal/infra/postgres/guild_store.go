package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"gengo-bot/internal/domain"
)

// GuildStore persists guild configurations and quiz rewards via bun.
type GuildStore struct {
	db *bun.DB
}

func NewGuildStore(db *bun.DB) *GuildStore {
	return &GuildStore{db: db}
}

func (s *GuildStore) GuildConfig(ctx context.Context, guildID string) (domain.GuildConfig, error) {
	row := guildConfigRow{}
	err := s.db.NewSelect().Model(&row).Where("guild_id = ?", guildID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GuildConfig{}, domain.ErrGuildNotConfigured
	}
	if err != nil {
		return domain.GuildConfig{}, fmt.Errorf("select guild config: %w", err)
	}
	return row.toDomain(), nil
}

func (s *GuildStore) PutGuildConfig(ctx context.Context, cfg domain.GuildConfig) error {
	row := guildConfigFromDomain(cfg)
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("immersion_enabled = EXCLUDED.immersion_enabled").
		Set("immersion_public = EXCLUDED.immersion_public").
		Set("immersion_channel = EXCLUDED.immersion_channel").
		Set("quiz_channels = EXCLUDED.quiz_channels").
		Set("notification_channel = EXCLUDED.notification_channel").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert guild config: %w", err)
	}
	return nil
}

func (s *GuildStore) GuildRewards(ctx context.Context, guildID string) ([]domain.QuizReward, error) {
	var rows []quizRewardRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", guildID).
		Order("sort ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select quiz rewards: %w", err)
	}
	rewards := make([]domain.QuizReward, 0, len(rows))
	for _, r := range rows {
		rewards = append(rewards, r.toDomain())
	}
	return rewards, nil
}

func (s *GuildStore) RewardByName(ctx context.Context, guildID, name string) (domain.QuizReward, error) {
	row := quizRewardRow{}
	err := s.db.NewSelect().
		Model(&row).
		Where("guild_id = ?", guildID).
		Where("name = ?", name).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizReward{}, domain.ErrRewardNotFound
	}
	if err != nil {
		return domain.QuizReward{}, fmt.Errorf("select quiz reward: %w", err)
	}
	return row.toDomain(), nil
}

func (s *GuildStore) PutReward(ctx context.Context, reward domain.QuizReward) error {
	row := quizRewardFromDomain(reward)
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (role_id) DO UPDATE").
		Set("guild_id = EXCLUDED.guild_id").
		Set("sort = EXCLUDED.sort").
		Set("name = EXCLUDED.name").
		Set("command = EXCLUDED.command").
		Set("cooldown_seconds = EXCLUDED.cooldown_seconds").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert quiz reward: %w", err)
	}
	return nil
}
