package quiz

// Participant tracks one user's per-deck score within a session.
type Participant struct {
	UserID string
	scores map[string]int
}

func newParticipant(userID string, deckIDs []string) *Participant {
	p := &Participant{
		UserID: userID,
		scores: make(map[string]int, len(deckIDs)),
	}
	for _, id := range deckIDs {
		p.scores[id] = 0
	}
	return p
}

// AddPoint increments the participant's score for a deck, seeding a zero
// row if the deck was not known at join time.
func (p *Participant) AddPoint(deckID string) {
	if _, ok := p.scores[deckID]; !ok {
		p.scores[deckID] = 0
	}
	p.scores[deckID]++
}

// Points returns the participant's score for a deck.
func (p *Participant) Points(deckID string) int {
	return p.scores[deckID]
}

// Total returns the participant's score summed across all decks.
func (p *Participant) Total() int {
	total := 0
	for _, n := range p.scores {
		total += n
	}
	return total
}
