package quiz

import (
	"fmt"
	"strings"

	"gengo-bot/internal/domain"
)

const (
	colorCard    = 0xFF00FF
	colorSuccess = 0x7CFC00
	colorFailure = 0xFF0000
)

// viewState selects which quiz view an embed is built for.
type viewState int

const (
	viewCard viewState = iota
	viewAnswer
	viewFinished
)

// roundView parameterizes the single embed builder for all quiz views.
type roundView struct {
	state viewState
	deck  *SessionDeck
	card  *domain.Card
	// correctUser is the winning responder for an answered round, "" for a
	// skipped or timed-out one.
	correctUser string
}

// buildView renders the card, answer, and finish views from one place so
// the formatting rules stay in sync.
func buildView(s *Session, v roundView) Embed {
	switch v.state {
	case viewCard:
		return buildCardView(v)
	case viewAnswer:
		return buildAnswerView(s, v)
	default:
		return buildFinishedView(s)
	}
}

func buildCardView(v roundView) Embed {
	e := Embed{
		Title:       v.deck.Deck.Meta.Title,
		Description: v.card.Instructions,
		Color:       colorCard,
	}
	if v.card.Render == domain.RenderImage {
		e.ImageURL = "attachment://card.png"
		return e
	}
	value := ""
	if v.deck.Deck.Meta.Format == domain.FormatMulti {
		value = numberedList(v.card.Options)
	}
	e.Fields = append(e.Fields, EmbedField{Name: v.card.Question, Value: value})
	return e
}

func buildAnswerView(s *Session, v roundView) Embed {
	correct := v.correctUser != ""
	e := Embed{
		Title: v.deck.Deck.Meta.Title,
		Color: colorFailure,
	}
	if correct {
		e.Color = colorSuccess
		e.Description = fmt.Sprintf("<@%s> answered first!", v.correctUser)
	} else {
		e.Description = "Question skipped!"
		e.Footer = "You can skip questions by saying 'skip' or just 's' or '。'."
	}
	e.Fields = append(e.Fields,
		EmbedField{Name: "Correct Answers", Value: numberedList(v.card.Answers)},
		EmbedField{Name: "Scores", Value: scoreboard(s)},
	)
	if v.card.Comment != "" {
		e.Fields = append(e.Fields, EmbedField{Name: "Comment", Value: v.card.Comment})
	}
	return e
}

func buildFinishedView(s *Session) Embed {
	winner := s.Winner()
	e := Embed{
		Title: s.Title() + " Ended!",
		Color: colorFailure,
	}
	if winner != "" {
		e.Color = colorSuccess
		e.Description = fmt.Sprintf("<@%s> passed first!", winner)
	} else {
		e.Description = "There were too many unanswered questions, so I stopped!"
	}
	if unanswered := s.Unanswered(); len(unanswered) > 0 {
		e.Fields = append(e.Fields, EmbedField{Name: "Unanswered Questions", Value: numberedList(unanswered)})
	}
	e.Fields = append(e.Fields, EmbedField{Name: "Scores", Value: scoreboard(s)})
	return e
}

func scoreboard(s *Session) string {
	var b strings.Builder
	for _, row := range s.Scoreboard() {
		fmt.Fprintf(&b, "<@%s> %d points\n", row.UserID, row.Points)
	}
	return b.String()
}

func numberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "**%d.** %s\n", i+1, item)
	}
	return b.String()
}
