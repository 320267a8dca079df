package quiz

import (
	"context"
	"time"

	"gengo-bot/internal/domain"
)

// Messenger is the chat transport consumed by the quiz engine. Implemented
// by the Discord gateway adapter; tests use an in-memory fake.
type Messenger interface {
	Publish(ctx context.Context, channelID string, msg Message) error
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
}

// Message is one outbound chat message: plain content, an embed, an image
// attachment, or a combination.
type Message struct {
	Content string
	Embed   *Embed
	File    *File
}

// Embed is a transport-neutral rich message.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	// ImageURL references an attachment by name, e.g. "attachment://card.png".
	ImageURL string
}

// EmbedField is one titled section in an embed.
type EmbedField struct {
	Name  string
	Value string
}

// File is an attachment published with a message.
type File struct {
	Name string
	Data []byte
}

// Renderer rasterizes a card's question for image-rendered decks. Rendering
// pipelines are supplied externally; a nil renderer downgrades image cards
// to text.
type Renderer interface {
	Render(question, effect string) ([]byte, error)
}

// GuildStore exposes the guild configuration consumed at session end.
type GuildStore interface {
	GuildConfig(ctx context.Context, guildID string) (domain.GuildConfig, error)
	GuildRewards(ctx context.Context, guildID string) ([]domain.QuizReward, error)
	RewardByName(ctx context.Context, guildID, name string) (domain.QuizReward, error)
}

// CooldownStore tracks per-user quiz reward cooldowns.
type CooldownStore interface {
	// Get returns the cooldown expiry, or ok=false when none is active.
	Get(ctx context.Context, userID, rewardID string) (expiry time.Time, ok bool, err error)
	Set(ctx context.Context, userID, rewardID string, d time.Duration) error
	Clear(ctx context.Context, userID, rewardID string) error
}
