package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"gengo-bot/internal/config"
	"gengo-bot/internal/deck"
)

// NewDecksCmd lists the decks the bot would load, for checking a deck
// directory before deploying it.
func NewDecksCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List loadable quiz decks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			dir := cfg.Decks.Dir
			if dir == "" {
				dir = "decks"
			}
			catalog, err := deck.Load(dir, slog.Default())
			if err != nil {
				return err
			}
			for _, d := range catalog.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d cards\t%s\n",
					d.Meta.ID, d.Meta.Title, len(d.Cards), d.Timeout())
			}
			return nil
		},
	}
}
