// Package discord adapts the bot's use cases to the Discord gateway and
// REST API via discordgo. It is the only package that imports discordgo;
// the quiz engine talks to chat through quiz.Messenger.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"gengo-bot/internal/immersion"
	"gengo-bot/internal/quiz"
)

const defaultPrefix = "!"

// startCountdown is how long a channel gets between the confirmation
// message and the first card.
const startCountdown = 5 * time.Second

// Gateway owns the discordgo session and routes inbound messages to the
// quiz engine's response intake or to command handlers.
type Gateway struct {
	ds        *discordgo.Session
	manager   *quiz.Manager
	imm       *immersion.Service
	guilds    quiz.GuildStore
	cooldowns quiz.CooldownStore
	log       *slog.Logger
	prefix    string
	// countdown is overridable in tests.
	countdown time.Duration
}

func New(token string, guilds quiz.GuildStore, cooldowns quiz.CooldownStore, log *slog.Logger) (*Gateway, error) {
	ds, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	ds.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	if log == nil {
		log = slog.Default()
	}
	g := &Gateway{
		ds:        ds,
		guilds:    guilds,
		cooldowns: cooldowns,
		log:       log,
		prefix:    defaultPrefix,
		countdown: startCountdown,
	}
	ds.AddHandler(g.onMessageCreate)
	return g, nil
}

// SetManager wires the quiz manager in after construction; the manager
// needs the gateway as its Messenger, so the two are linked in two steps.
func (g *Gateway) SetManager(m *quiz.Manager) {
	g.manager = m
}

// SetImmersion wires in the immersion logging service.
func (g *Gateway) SetImmersion(s *immersion.Service) {
	g.imm = s
}

// Open connects to the gateway and blocks until ctx is done.
func (g *Gateway) Open(ctx context.Context) error {
	if err := g.ds.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	g.log.Info("discord gateway connected")
	<-ctx.Done()
	return g.ds.Close()
}

// Publish implements quiz.Messenger.
func (g *Gateway) Publish(_ context.Context, channelID string, msg quiz.Message) error {
	send := &discordgo.MessageSend{Content: msg.Content}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{toDiscordEmbed(msg.Embed)}
	}
	if msg.File != nil {
		send.Files = []*discordgo.File{{
			Name:   msg.File.Name,
			Reader: bytes.NewReader(msg.File.Data),
		}}
	}
	_, err := g.ds.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return nil
}

// GrantRole implements quiz.Messenger.
func (g *Gateway) GrantRole(_ context.Context, guildID, userID, roleID string) error {
	if err := g.ds.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
		return fmt.Errorf("grant role %s to %s: %w", roleID, userID, err)
	}
	return nil
}

func (g *Gateway) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	ctx := context.Background()

	if strings.HasPrefix(m.Content, g.prefix) {
		g.dispatchCommand(ctx, m)
		return
	}
	g.manager.Intake(m.ChannelID, m.Author.ID, m.Content)
}

func toDiscordEmbed(e *quiz.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if e.ImageURL != "" {
		out.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	return out
}
