package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gengo-bot/internal/deck"
	"gengo-bot/internal/domain"
)

// Manager owns the deck catalog and every live session, keyed by channel.
// One Manager exists per process; each registered session gets its own
// round-loop goroutine via Run, so channels progress independently. The
// registry map is the only state shared across sessions.
type Manager struct {
	catalog  *deck.Catalog
	msg      Messenger
	guilds   GuildStore
	renderer Renderer
	log      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(catalog *deck.Catalog, messenger Messenger, guilds GuildStore, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		catalog:  catalog,
		msg:      messenger,
		guilds:   guilds,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// SetRenderer installs the image pipeline for image-rendered cards. Without
// one, image cards fall back to text.
func (m *Manager) SetRenderer(r Renderer) {
	m.renderer = r
}

// Register builds a session from parsed options and claims the channel.
// The check and the insert happen under one lock, so two concurrent
// registrations for a channel cannot both succeed.
func (m *Manager) Register(opts Options, channelID, guildID, quizString string) (*Session, error) {
	decks := make([]*SessionDeck, 0, len(opts.Decks))
	titles := make([]string, 0, len(opts.Decks))
	cfg := SessionConfig{
		ChannelID:   channelID,
		GuildID:     guildID,
		QuizString:  quizString,
		FailLimit:   opts.FailLimit,
		Multiplayer: opts.Multiplayer,
		Hardcore:    opts.Hardcore,
		Effect:      opts.Effect,
	}
	s := NewSession(cfg)

	for i, id := range opts.Decks {
		d, ok := m.catalog.ByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrDeckNotFound, id)
		}
		limit := DefaultScoreLimit
		if len(opts.Scores) > 0 {
			limit = opts.Scores[i]
		}
		timeout := d.Timeout()
		if len(opts.Timeouts) > 0 {
			timeout = time.Duration(opts.Timeouts[i]) * time.Second
		}
		seq := NewSequencer(len(d.Cards), s.rnd)
		seq.Limit = limit
		decks = append(decks, &SessionDeck{Deck: d, Seq: seq, Timeout: timeout})
		titles = append(titles, d.Meta.Title)
	}
	s.decks = decks
	s.title = strings.Join(titles, " + ")

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[channelID]; ok {
		return nil, domain.ErrSessionExists
	}
	m.sessions[channelID] = s
	return s, nil
}

// Decks lists every loaded deck in catalog order.
func (m *Manager) Decks() []*domain.Deck {
	return m.catalog.All()
}

// Session returns the live session for a channel, if any.
func (m *Manager) Session(channelID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[channelID]
	return s, ok
}

// Intake feeds an inbound chat message to the channel's live session.
// It reports whether a session consumed the message.
func (m *Manager) Intake(channelID, userID, text string) bool {
	s, ok := m.Session(channelID)
	if !ok {
		return false
	}
	s.AddResponse(userID, text)
	return true
}

func (m *Manager) remove(channelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, channelID)
}

// Run drives a session's round loop to completion, then dispatches rewards,
// removes the registry entry, and announces the outcome. Publish failures
// are logged, not fatal: a dropped announcement must not kill a running
// quiz.
func (m *Manager) Run(ctx context.Context, s *Session) {
	s.start()
	defer m.remove(s.ChannelID())

	for !s.Finished() {
		sd, card, ok := s.NextCard()
		if !ok {
			break
		}
		m.publishCard(ctx, s, sd, card)

		res := m.waitRound(ctx, s, sd)
		if s.Finished() && res.Outcome == OutcomePending {
			// externally finished mid-round, nothing to announce
			break
		}

		correctUser := ""
		if res.Outcome == OutcomeAnswered {
			correctUser = res.UserID
		} else {
			s.MarkUnanswered()
		}
		answer := buildView(s, roundView{state: viewAnswer, deck: sd, card: card, correctUser: correctUser})
		m.publish(ctx, s.ChannelID(), Message{Embed: &answer})
		s.ClearResponses()
	}

	if winner := s.Winner(); winner != "" {
		m.dispatchReward(ctx, s, winner)
	}
	finished := buildView(s, roundView{state: viewFinished})
	m.publish(ctx, s.ChannelID(), Message{Embed: &finished})
}

// waitRound blocks until the round resolves or the deck's answer window
// elapses. It races the response-queue notification against the deadline
// timer; every wakeup re-scans the full queue in arrival order, so the
// first matching response wins regardless of wakeup interleaving.
func (m *Manager) waitRound(ctx context.Context, s *Session, sd *SessionDeck) Resolution {
	timer := time.NewTimer(sd.Timeout)
	defer timer.Stop()

	for {
		res := s.ResolveRound()
		if res.Outcome != OutcomePending {
			return res
		}
		select {
		case <-s.Notify():
		case <-timer.C:
			// responses that arrived before the deadline still count
			return s.ResolveRound()
		case <-ctx.Done():
			s.Finish()
			return Resolution{}
		}
	}
}

func (m *Manager) publishCard(ctx context.Context, s *Session, sd *SessionDeck, card *domain.Card) {
	e := buildView(s, roundView{state: viewCard, deck: sd, card: card})
	msg := Message{Embed: &e}

	if card.Render == domain.RenderImage {
		data, err := m.renderCard(card, s.Effect())
		if err != nil {
			m.log.Warn("render card failed, falling back to text",
				"channel", s.ChannelID(), "err", err)
			e.ImageURL = ""
			e.Fields = append(e.Fields, EmbedField{Name: card.Question})
		} else {
			msg.File = &File{Name: "card.png", Data: data}
		}
	}
	m.publish(ctx, s.ChannelID(), msg)
}

func (m *Manager) renderCard(card *domain.Card, effect string) ([]byte, error) {
	if m.renderer == nil {
		return nil, errors.New("no renderer configured")
	}
	return m.renderer.Render(card.Question, effect)
}

func (m *Manager) publish(ctx context.Context, channelID string, msg Message) {
	if err := m.msg.Publish(ctx, channelID, msg); err != nil {
		m.log.Warn("publish failed", "channel", channelID, "err", err)
	}
}

// dispatchReward grants the configured role when the finished session's
// invocation string exactly matches a stored reward command. Unmatched
// commands and unconfigured guilds are silent no-ops.
func (m *Manager) dispatchReward(ctx context.Context, s *Session, winner string) {
	cfg, err := m.guilds.GuildConfig(ctx, s.GuildID())
	if err != nil {
		if !errors.Is(err, domain.ErrGuildNotConfigured) {
			m.log.Warn("load guild config failed", "guild", s.GuildID(), "err", err)
		}
		return
	}
	rewards, err := m.guilds.GuildRewards(ctx, s.GuildID())
	if err != nil {
		m.log.Warn("load guild rewards failed", "guild", s.GuildID(), "err", err)
		return
	}

	reward, ok := rewardFor(rewards, s.QuizString())
	if !ok {
		return
	}
	if cfg.NotificationChannel != "" {
		m.publish(ctx, cfg.NotificationChannel, Message{
			Content: fmt.Sprintf("<@%s> has successfully completed the <@&%s> quiz!", winner, reward.RoleID),
		})
	}
	if err := m.msg.GrantRole(ctx, s.GuildID(), winner, reward.RoleID); err != nil {
		m.log.Warn("grant role failed",
			"guild", s.GuildID(), "user", winner, "role", reward.RoleID, "err", err)
	}
}

// rewardFor matches by exact string equality against the stored command.
// Kept byte-for-byte deliberately; canonicalized matching would change
// which historical reward entries fire.
func rewardFor(rewards []domain.QuizReward, quizString string) (domain.QuizReward, bool) {
	for _, r := range rewards {
		if r.Command == quizString {
			return r, true
		}
	}
	return domain.QuizReward{}, false
}
