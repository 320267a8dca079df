package quiz

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"gengo-bot/internal/domain"
)

// skipTokens end the current round without credit when sent verbatim.
// The single-width 。 is deliberate: Japanese keyboards produce it with one
// keypress.
var skipTokens = map[string]struct{}{
	"skip": {},
	"s":    {},
	"。":    {},
}

// State is a session's lifecycle phase.
type State int

const (
	StatePending State = iota
	StateRunning
	StateFinished
)

// Response is one inbound chat message queued as a candidate answer.
type Response struct {
	UserID string
	Text   string
}

// Outcome is how a round resolved. Exactly one applies per round.
type Outcome int

const (
	// OutcomePending means no queued response resolves the round yet.
	OutcomePending Outcome = iota
	OutcomeAnswered
	OutcomeSkipped
)

// Resolution is the result of scanning the response queue for one round.
type Resolution struct {
	Outcome Outcome
	// UserID is the first correctly-answering user, for OutcomeAnswered.
	UserID string
	// DeckClosed is set when the answer brought the responder to the
	// current deck's score limit.
	DeckClosed bool
	// Won is set when the answer completed every deck's limit for the
	// responder, finishing the session.
	Won bool
}

// SessionDeck is one deck's per-session draw state. Timeout may differ from
// the deck's default when the invocation string overrides it; the shared
// catalog deck is never mutated.
type SessionDeck struct {
	Deck    *domain.Deck
	Seq     *Sequencer
	Timeout time.Duration
}

// SessionConfig carries everything needed to construct a Session.
type SessionConfig struct {
	ChannelID   string
	GuildID     string
	Title       string
	QuizString  string
	Decks       []*SessionDeck
	FailLimit   int
	Multiplayer bool
	Hardcore    bool
	Effect      string
	// Rand drives deck selection; defaults to a time-seeded source.
	Rand *rand.Rand
}

// Session is one live quiz run bound to a channel. The response queue is
// written only by AddResponse (intake) and drained only by the round loop;
// all other state is mutated by the round loop alone. Every method locks,
// so intake and the round loop may race freely.
type Session struct {
	channelID   string
	guildID     string
	title       string
	quizString  string
	failLimit   int
	multiplayer bool
	hardcore    bool
	effect      string

	mu           sync.Mutex
	state        State
	decks        []*SessionDeck
	participants map[string]*Participant
	responses    []Response
	notify       chan struct{}
	unanswered   []string
	currentDeck  *SessionDeck
	currentCard  *domain.Card
	winner       string
	finished     bool
	rnd          *rand.Rand
}

// NewSession constructs a pending session. The caller registers it and adds
// the initiating participant before running it.
func NewSession(cfg SessionConfig) *Session {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		channelID:    cfg.ChannelID,
		guildID:      cfg.GuildID,
		title:        cfg.Title,
		quizString:   cfg.QuizString,
		failLimit:    cfg.FailLimit,
		multiplayer:  cfg.Multiplayer,
		hardcore:     cfg.Hardcore,
		effect:       cfg.Effect,
		state:        StatePending,
		decks:        cfg.Decks,
		participants: make(map[string]*Participant),
		notify:       make(chan struct{}, 1),
		rnd:          rnd,
	}
}

func (s *Session) ChannelID() string  { return s.channelID }
func (s *Session) GuildID() string    { return s.guildID }
func (s *Session) Title() string      { return s.title }
func (s *Session) QuizString() string { return s.quizString }
func (s *Session) Hardcore() bool     { return s.hardcore }
func (s *Session) Effect() string     { return s.effect }

// State returns the session's lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePending {
		s.state = StateRunning
	}
}

// AddParticipant seeds a zero score row across all session decks. Adding an
// existing participant is a no-op.
func (s *Session) AddParticipant(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addParticipantLocked(userID)
}

func (s *Session) addParticipantLocked(userID string) {
	if _, ok := s.participants[userID]; ok {
		return
	}
	ids := make([]string, 0, len(s.decks))
	for _, sd := range s.decks {
		ids = append(ids, sd.Deck.Meta.ID)
	}
	s.participants[userID] = newParticipant(userID, ids)
}

// AddResponse enqueues a candidate answer, preserving arrival order.
// Non-participants are dropped unless the session is multiplayer, in which
// case they join on their first message.
func (s *Session) AddResponse(userID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	if _, ok := s.participants[userID]; !ok {
		if !s.multiplayer {
			return
		}
		s.addParticipantLocked(userID)
	}
	s.responses = append(s.responses, Response{UserID: userID, Text: text})
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Notify signals when the response queue has grown. The channel is
// 1-buffered; the round loop re-scans the full queue per wakeup, so
// coalesced signals are fine.
func (s *Session) Notify() <-chan struct{} {
	return s.notify
}

// ClearResponses empties the queue after round resolution.
func (s *Session) ClearResponses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = nil
	select {
	case <-s.notify:
	default:
	}
}

// NextCard draws the next card from a uniformly chosen live deck. A false
// return means every deck is exhausted or shut; the session is finished.
func (s *Session) NextCard() (*SessionDeck, *domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make([]*SessionDeck, 0, len(s.decks))
	for _, sd := range s.decks {
		if sd.Seq.Live() {
			live = append(live, sd)
		}
	}
	if len(live) == 0 {
		s.finished = true
		s.state = StateFinished
		return nil, nil, false
	}

	sd := live[s.rnd.Intn(len(live))]
	idx, ok := sd.Seq.Next()
	if !ok {
		// A live sequencer always has a next index; treat this as exhaustion.
		s.finished = true
		s.state = StateFinished
		return nil, nil, false
	}
	s.currentDeck = sd
	s.currentCard = &sd.Deck.Cards[idx]
	return sd, s.currentCard, true
}

// ResolveRound scans the queue in arrival order and applies the round rules:
// the first matching response wins the round and a point; failing any match,
// a recognized skip token (or, in hardcore mode, any response at all) ends
// the round as skipped. A match earlier in the queue beats a later skip
// token, and in hardcore mode a match anywhere in the queue still wins.
func (s *Session) ResolveRound() Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentCard == nil {
		return Resolution{}
	}

	skipAt := -1
	for i, resp := range s.responses {
		if matchesAnswer(s.currentCard, resp.Text) {
			return s.awardLocked(resp.UserID)
		}
		if skipAt < 0 {
			if _, ok := skipTokens[resp.Text]; ok {
				skipAt = i
			}
		}
	}
	if s.hardcore && len(s.responses) > 0 {
		return Resolution{Outcome: OutcomeSkipped}
	}
	if skipAt >= 0 {
		return Resolution{Outcome: OutcomeSkipped}
	}
	return Resolution{Outcome: OutcomePending}
}

func matchesAnswer(card *domain.Card, text string) bool {
	for _, a := range card.Answers {
		if a == text {
			return true
		}
	}
	return false
}

func (s *Session) awardLocked(userID string) Resolution {
	res := Resolution{Outcome: OutcomeAnswered, UserID: userID}

	p := s.participants[userID]
	deckID := s.currentDeck.Deck.Meta.ID
	p.AddPoint(deckID)
	if p.Points(deckID) == s.currentDeck.Seq.Limit {
		s.currentDeck.Seq.Shut()
		res.DeckClosed = true
	}

	won := true
	for _, sd := range s.decks {
		if p.Points(sd.Deck.Meta.ID) != sd.Seq.Limit {
			won = false
			break
		}
	}
	if won {
		s.winner = userID
		s.finished = true
		s.state = StateFinished
		res.Won = true
	}
	return res
}

// MarkUnanswered records the current card's question after a timed-out or
// skipped round and finishes the session once the fail limit is reached.
func (s *Session) MarkUnanswered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentCard == nil {
		return
	}
	s.unanswered = append(s.unanswered, s.currentCard.Question)
	if len(s.unanswered) >= s.failLimit {
		s.finished = true
		s.state = StateFinished
	}
}

// Finish forces the session into its terminal state.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
	s.state = StateFinished
}

// Finished reports whether the round loop should exit.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Winner returns the winning user id, or "" when the session ended without
// a winner.
func (s *Session) Winner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner
}

// Unanswered returns the questions no one answered, in order.
func (s *Session) Unanswered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.unanswered))
	copy(out, s.unanswered)
	return out
}

// Points returns a participant's score for one deck.
func (s *Session) Points(userID, deckID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[userID]
	if !ok {
		return 0
	}
	return p.Points(deckID)
}

// ScoreRow is one scoreboard line.
type ScoreRow struct {
	UserID string
	Points int
}

// Scoreboard returns total scores, highest first, ties by user id for
// stable output.
func (s *Session) Scoreboard() []ScoreRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]ScoreRow, 0, len(s.participants))
	for _, p := range s.participants {
		rows = append(rows, ScoreRow{UserID: p.UserID, Points: p.Total()})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows
}
