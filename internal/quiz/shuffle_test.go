package quiz

import (
	"math/rand"
	"testing"
)

func TestSequencerDrawsEachIndexOnce(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	seq := NewSequencer(10, rnd)

	seen := make(map[int]bool)
	for {
		i, ok := seq.Next()
		if !ok {
			break
		}
		if seen[i] {
			t.Fatalf("index %d drawn twice", i)
		}
		if i < 0 || i >= 10 {
			t.Fatalf("index %d out of range", i)
		}
		seen[i] = true
	}
	if len(seen) != 10 {
		t.Fatalf("expected 10 draws, got %d", len(seen))
	}
	if seq.Live() {
		t.Fatalf("expected sequencer dead after exhaustion")
	}
}

func TestSequencerShutStopsDraws(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	seq := NewSequencer(5, rnd)

	if _, ok := seq.Next(); !ok {
		t.Fatalf("expected a draw from a fresh sequencer")
	}
	seq.Shut()
	if seq.Live() {
		t.Fatalf("expected sequencer dead after Shut")
	}
	if _, ok := seq.Next(); ok {
		t.Fatalf("expected no draw after Shut")
	}
	if seq.Remaining() != 4 {
		t.Fatalf("expected 4 remaining, got %d", seq.Remaining())
	}
}

func TestSequencerEmptyDeck(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	seq := NewSequencer(0, rnd)

	if seq.Live() {
		t.Fatalf("expected empty sequencer dead")
	}
	if _, ok := seq.Next(); ok {
		t.Fatalf("expected no draw from empty sequencer")
	}
}
