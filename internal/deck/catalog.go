// Package deck loads quiz decks from disk at startup.
//
// A deck is a directory holding two documents: meta.json (the deck's
// metadata) and deck.json (its card list). Directories missing either
// document are skipped; malformed documents skip the deck with a warning
// rather than failing startup.
package deck

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gengo-bot/internal/domain"
)

// Catalog is the immutable, process-lifetime deck collection.
type Catalog struct {
	decks []*domain.Deck
}

// New builds a catalog from already-loaded decks.
func New(decks ...*domain.Deck) *Catalog {
	return &Catalog{decks: decks}
}

// Load scans root's immediate subdirectories for decks.
func Load(root string, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.Default()
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read deck root %s: %w", root, err)
	}

	c := &Catalog{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		d, err := loadDeck(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn("skipping malformed deck", "dir", dir, "err", err)
			}
			continue
		}
		c.decks = append(c.decks, d)
	}
	return c, nil
}

func loadDeck(dir string) (*domain.Deck, error) {
	meta, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		return nil, err
	}
	cards, err := os.ReadFile(filepath.Join(dir, "deck.json"))
	if err != nil {
		return nil, err
	}

	d := &domain.Deck{}
	if err := json.Unmarshal(meta, &d.Meta); err != nil {
		return nil, fmt.Errorf("meta.json: %w", err)
	}
	if err := json.Unmarshal(cards, &d.Cards); err != nil {
		return nil, fmt.Errorf("deck.json: %w", err)
	}
	if d.Meta.ID == "" {
		return nil, fmt.Errorf("meta.json: missing deck id")
	}
	if len(d.Cards) == 0 {
		return nil, fmt.Errorf("deck.json: no cards")
	}
	return d, nil
}

// All returns every loaded deck in directory order.
func (c *Catalog) All() []*domain.Deck {
	return c.decks
}

// ByID finds a deck by its invocation id. The catalog is small and static,
// so a linear scan is fine.
func (c *Catalog) ByID(id string) (*domain.Deck, bool) {
	for _, d := range c.decks {
		if d.Meta.ID == id {
			return d, true
		}
	}
	return nil, false
}

// Len returns the number of loaded decks.
func (c *Catalog) Len() int {
	return len(c.decks)
}
