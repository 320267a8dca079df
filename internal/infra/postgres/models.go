package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"gengo-bot/internal/domain"
)

type guildConfigRow struct {
	bun.BaseModel `bun:"table:guild_configs"`

	GuildID             string   `bun:"guild_id,pk"`
	ImmersionEnabled    bool     `bun:"immersion_enabled,notnull"`
	ImmersionPublic     bool     `bun:"immersion_public,notnull"`
	ImmersionChannel    string   `bun:"immersion_channel,notnull"`
	QuizChannels        []string `bun:"quiz_channels,array"`
	NotificationChannel string   `bun:"notification_channel,notnull"`
}

func (r guildConfigRow) toDomain() domain.GuildConfig {
	return domain.GuildConfig{
		GuildID:             r.GuildID,
		ImmersionEnabled:    r.ImmersionEnabled,
		ImmersionPublic:     r.ImmersionPublic,
		ImmersionChannel:    r.ImmersionChannel,
		QuizChannels:        r.QuizChannels,
		NotificationChannel: r.NotificationChannel,
	}
}

func guildConfigFromDomain(cfg domain.GuildConfig) guildConfigRow {
	return guildConfigRow{
		GuildID:             cfg.GuildID,
		ImmersionEnabled:    cfg.ImmersionEnabled,
		ImmersionPublic:     cfg.ImmersionPublic,
		ImmersionChannel:    cfg.ImmersionChannel,
		QuizChannels:        cfg.QuizChannels,
		NotificationChannel: cfg.NotificationChannel,
	}
}

type quizRewardRow struct {
	bun.BaseModel `bun:"table:quiz_rewards"`

	RoleID  string `bun:"role_id,pk"`
	GuildID string `bun:"guild_id,notnull"`
	Sort    int    `bun:"sort,notnull"`
	Name    string `bun:"name,notnull"`
	Command string `bun:"command,notnull"`
	// CooldownSeconds stores the reward cooldown; durations are written in
	// whole seconds.
	CooldownSeconds int64 `bun:"cooldown_seconds,notnull"`
}

func (r quizRewardRow) toDomain() domain.QuizReward {
	return domain.QuizReward{
		RoleID:   r.RoleID,
		GuildID:  r.GuildID,
		Sort:     r.Sort,
		Name:     r.Name,
		Command:  r.Command,
		Cooldown: time.Duration(r.CooldownSeconds) * time.Second,
	}
}

func quizRewardFromDomain(r domain.QuizReward) quizRewardRow {
	return quizRewardRow{
		RoleID:          r.RoleID,
		GuildID:         r.GuildID,
		Sort:            r.Sort,
		Name:            r.Name,
		Command:         r.Command,
		CooldownSeconds: int64(r.Cooldown / time.Second),
	}
}

type immersionLogRow struct {
	bun.BaseModel `bun:"table:immersion_logs"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       string    `bun:"user_id,notnull"`
	GuildID      string    `bun:"guild_id,notnull"`
	MediaType    string    `bun:"media_type,notnull"`
	Amount       int       `bun:"amount,notnull"`
	Interpolated bool      `bun:"interpolated,notnull"`
	DurationNS   int64     `bun:"duration_ns,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	Title        string    `bun:"title,notnull"`
	ContentID    string    `bun:"content_id,notnull"`
	Comment      string    `bun:"comment,notnull"`
}

func (r immersionLogRow) toDomain() domain.ImmersionLog {
	return domain.ImmersionLog{
		ID:           r.ID,
		UserID:       r.UserID,
		GuildID:      r.GuildID,
		MediaType:    domain.MediaType(r.MediaType),
		Amount:       r.Amount,
		Interpolated: r.Interpolated,
		Duration:     time.Duration(r.DurationNS),
		CreatedAt:    r.CreatedAt,
		Title:        r.Title,
		ContentID:    r.ContentID,
		Comment:      r.Comment,
	}
}

func immersionLogFromDomain(l domain.ImmersionLog) immersionLogRow {
	return immersionLogRow{
		ID:           l.ID,
		UserID:       l.UserID,
		GuildID:      l.GuildID,
		MediaType:    string(l.MediaType),
		Amount:       l.Amount,
		Interpolated: l.Interpolated,
		DurationNS:   int64(l.Duration),
		CreatedAt:    l.CreatedAt,
		Title:        l.Title,
		ContentID:    l.ContentID,
		Comment:      l.Comment,
	}
}
