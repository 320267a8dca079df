package quiz

import "math/rand"

// Sequencer draws card indices for one deck in one session without
// replacement. It owns a Fisher-Yates permutation of [0, n) and a cursor;
// once the cursor reaches n, or Shut is called, the sequencer reports dead
// and the deck is excluded from further draws. Sequencers are discarded
// with their session and never reused.
type Sequencer struct {
	order  []int
	cursor int
	live   bool
	// Limit is the score a single participant must reach to close this deck.
	Limit int
}

// NewSequencer shuffles a permutation of [0, n).
func NewSequencer(n int, rnd *rand.Rand) *Sequencer {
	s := &Sequencer{
		order: make([]int, n),
		live:  n > 0,
	}
	for i := range s.order {
		s.order[i] = i
	}
	for i := 0; i < n-1; i++ {
		j := i + rnd.Intn(n-i)
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	return s
}

// Next returns the next unused card index. The second return is false once
// the sequencer is exhausted or shut; no index is consumed in that case.
func (s *Sequencer) Next() (int, bool) {
	if !s.live || s.cursor >= len(s.order) {
		return 0, false
	}
	i := s.order[s.cursor]
	s.cursor++
	if s.cursor == len(s.order) {
		s.live = false
	}
	return i, true
}

// Shut closes the sequencer early, regardless of cursor position.
func (s *Sequencer) Shut() {
	s.live = false
}

// Live reports whether the sequencer can still draw.
func (s *Sequencer) Live() bool {
	return s.live
}

// Remaining returns the number of undrawn indices.
func (s *Sequencer) Remaining() int {
	return len(s.order) - s.cursor
}
