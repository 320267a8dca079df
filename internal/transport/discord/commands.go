package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"gengo-bot/internal/domain"
	"gengo-bot/internal/immersion"
	"gengo-bot/internal/quiz"
)

const (
	errorMarker   = ":no_entry_sign: **Error:**"
	successMarker = ":white_check_mark: **Success:**"
)

func (g *Gateway) dispatchCommand(ctx context.Context, m *discordgo.MessageCreate) {
	body := strings.TrimPrefix(m.Content, g.prefix)
	name, rest, _ := strings.Cut(body, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "quiz":
		g.handleQuiz(ctx, m, rest)
	case "quiz-debug":
		g.handleQuizDebug(ctx, m, rest)
	case "decks":
		g.handleDecks(ctx, m)
	case "log":
		g.handleLog(ctx, m, rest)
	case "logs":
		g.handleLogs(ctx, m)
	case "undo":
		g.handleUndo(ctx, m)
	case "totals":
		g.handleTotals(ctx, m)
	}
}

// handleQuiz starts a reward quiz by name: it resolves the configured
// reward, enforces the per-user cooldown, registers the session and
// schedules the run after a short countdown.
func (g *Gateway) handleQuiz(ctx context.Context, m *discordgo.MessageCreate, name string) {
	if name == "" {
		g.replyError(ctx, m.ChannelID, "usage: "+g.prefix+"quiz <name>")
		return
	}
	reward, err := g.guilds.RewardByName(ctx, m.GuildID, name)
	if err != nil {
		if errors.Is(err, domain.ErrRewardNotFound) {
			g.replyError(ctx, m.ChannelID, fmt.Sprintf("the quiz `%s` does not exist", name))
			return
		}
		g.log.Error("resolve reward", "guild", m.GuildID, "name", name, "err", err)
		g.replyError(ctx, m.ChannelID, "could not look up the quiz, try again later")
		return
	}

	expiry, active, err := g.cooldowns.Get(ctx, m.Author.ID, reward.RoleID)
	if err != nil {
		g.log.Error("cooldown lookup", "user", m.Author.ID, "err", err)
		g.replyError(ctx, m.ChannelID, "could not check your cooldown, try again later")
		return
	}
	now := time.Now()
	if active && now.Before(expiry) {
		g.replyError(ctx, m.ChannelID, fmt.Sprintf("you are on cooldown for this quiz, try again <t:%d:R>", expiry.Unix()))
		return
	}
	if active {
		if err := g.cooldowns.Clear(ctx, m.Author.ID, reward.RoleID); err != nil {
			g.log.Warn("clear expired cooldown", "user", m.Author.ID, "err", err)
		}
	}

	opts, err := quiz.ParseOptions(reward.Command)
	if err != nil {
		g.log.Error("reward quiz string invalid", "guild", m.GuildID, "name", name, "err", err)
		g.replyError(ctx, m.ChannelID, "this quiz is misconfigured, contact a moderator")
		return
	}
	g.startSession(ctx, m, opts, reward.Command, &reward)
}

// handleQuizDebug runs a raw quiz string without reward or cooldown
// handling. It is restricted to members who can manage the guild.
func (g *Gateway) handleQuizDebug(ctx context.Context, m *discordgo.MessageCreate, quizString string) {
	perms, err := g.ds.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionManageServer == 0 {
		g.replyError(ctx, m.ChannelID, "you need the Manage Server permission for this command")
		return
	}
	if quizString == "" {
		g.replyError(ctx, m.ChannelID, "usage: "+g.prefix+"quiz-debug <quiz string>")
		return
	}
	opts, err := quiz.ParseOptions(quizString)
	if err != nil {
		g.replyError(ctx, m.ChannelID, err.Error())
		return
	}
	g.startSession(ctx, m, opts, quizString, nil)
}

func (g *Gateway) startSession(ctx context.Context, m *discordgo.MessageCreate, opts quiz.Options, quizString string, reward *domain.QuizReward) {
	s, err := g.manager.Register(opts, m.ChannelID, m.GuildID, quizString)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExists):
			g.replyError(ctx, m.ChannelID, "a quiz is already running in this channel")
		case errors.Is(err, domain.ErrDeckNotFound):
			g.replyError(ctx, m.ChannelID, err.Error())
		default:
			g.log.Error("register session", "channel", m.ChannelID, "err", err)
			g.replyError(ctx, m.ChannelID, "could not start the quiz, try again later")
		}
		return
	}
	s.AddParticipant(m.Author.ID)

	if reward != nil {
		if err := g.cooldowns.Set(ctx, m.Author.ID, reward.RoleID, reward.Cooldown); err != nil {
			g.log.Warn("set cooldown", "user", m.Author.ID, "err", err)
		}
	}

	g.reply(ctx, m.ChannelID, fmt.Sprintf("Starting quiz `%s` in %d seconds!", s.Title(), int(g.countdown.Seconds())))

	go func() {
		time.Sleep(g.countdown)
		g.manager.Run(context.Background(), s)
	}()
}

func (g *Gateway) handleDecks(ctx context.Context, m *discordgo.MessageCreate) {
	decks := g.manager.Decks()
	if len(decks) == 0 {
		g.replyError(ctx, m.ChannelID, "no decks are loaded")
		return
	}
	var b strings.Builder
	b.WriteString("```asciidoc\n")
	for _, d := range decks {
		fmt.Fprintf(&b, "%s :: %s | %s\n", d.Meta.ID, d.Meta.Title, d.Meta.Description)
	}
	b.WriteString("```")
	g.reply(ctx, m.ChannelID, b.String())
}

func (g *Gateway) handleLog(ctx context.Context, m *discordgo.MessageCreate, rest string) {
	args, err := parseLogArgs(rest)
	if err != nil {
		g.replyError(ctx, m.ChannelID, err.Error()+"\nusage: "+g.prefix+"log <type> <amount> <duration> <content> [# comment]")
		return
	}
	logged, err := g.imm.Log(ctx, immersion.LogRequest{
		UserID:    m.Author.ID,
		GuildID:   m.GuildID,
		MediaType: args.Media,
		Amount:    args.Amount,
		Duration:  args.Duration,
		Content:   args.Content,
		Comment:   args.Comment,
	})
	if err != nil {
		var verr *immersion.ValidationError
		if errors.As(err, &verr) {
			g.replyError(ctx, m.ChannelID, verr.Error())
			return
		}
		g.log.Error("log immersion", "user", m.Author.ID, "err", err)
		g.replyError(ctx, m.ChannelID, "could not save your log, try again later")
		return
	}
	g.replySuccess(ctx, m.ChannelID, fmt.Sprintf("logged %d %s of **%s**", logged.Amount, logged.MediaType.Unit(), logged.Title))
}

func (g *Gateway) handleLogs(ctx context.Context, m *discordgo.MessageCreate) {
	logs, err := g.imm.Recent(ctx, m.Author.ID, 15)
	if err != nil {
		g.log.Error("list logs", "user", m.Author.ID, "err", err)
		g.replyError(ctx, m.ChannelID, "could not fetch your logs, try again later")
		return
	}
	if len(logs) == 0 {
		g.replyError(ctx, m.ChannelID, "you have no logs yet")
		return
	}
	var b strings.Builder
	b.WriteString("```\n")
	for _, l := range logs {
		b.WriteString(formatLogLine(l))
		b.WriteByte('\n')
	}
	b.WriteString("```")
	g.reply(ctx, m.ChannelID, b.String())
}

func (g *Gateway) handleUndo(ctx context.Context, m *discordgo.MessageCreate) {
	removed, err := g.imm.Undo(ctx, m.Author.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoLogs) {
			g.replyError(ctx, m.ChannelID, "you have no logs to undo")
			return
		}
		g.log.Error("undo log", "user", m.Author.ID, "err", err)
		g.replyError(ctx, m.ChannelID, "could not undo your last log, try again later")
		return
	}
	g.replySuccess(ctx, m.ChannelID, fmt.Sprintf("removed your last log: **%s** (%d %s)", removed.Title, removed.Amount, removed.MediaType.Unit()))
}

func (g *Gateway) handleTotals(ctx context.Context, m *discordgo.MessageCreate) {
	totals, err := g.imm.Totals(ctx, m.Author.ID)
	if err != nil {
		g.log.Error("totals", "user", m.Author.ID, "err", err)
		g.replyError(ctx, m.ChannelID, "could not fetch your totals, try again later")
		return
	}
	if len(totals) == 0 {
		g.replyError(ctx, m.ChannelID, "you have no logs yet")
		return
	}
	var b strings.Builder
	b.WriteString("```\n")
	for _, t := range totals {
		fmt.Fprintf(&b, "%-12s %6d %-8s %s\n", t.MediaType, t.Amount, t.MediaType.Unit(), formatDuration(t.Duration))
	}
	b.WriteString("```")
	g.reply(ctx, m.ChannelID, b.String())
}

func (g *Gateway) reply(ctx context.Context, channelID, content string) {
	if err := g.Publish(ctx, channelID, quiz.Message{Content: content}); err != nil {
		g.log.Warn("send reply", "channel", channelID, "err", err)
	}
}

func (g *Gateway) replyError(ctx context.Context, channelID, msg string) {
	g.reply(ctx, channelID, errorMarker+" "+msg)
}

func (g *Gateway) replySuccess(ctx context.Context, channelID, msg string) {
	g.reply(ctx, channelID, successMarker+" "+msg)
}
