package domain

import "time"

// DeckFormat describes how a deck's cards are presented.
type DeckFormat string

const (
	FormatBasic DeckFormat = "Basic"
	FormatMulti DeckFormat = "Multi"
)

// RenderKind describes how a card's question is rendered to chat.
type RenderKind string

const (
	RenderText  RenderKind = "Text"
	RenderImage RenderKind = "Image"
)

// DeckMeta is the metadata document stored alongside a deck's card list.
type DeckMeta struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Format      DeckFormat `json:"format"`
	Size        int        `json:"size"`
	// Time is the default per-question answer window in milliseconds.
	Time int `json:"time"`
}

// Card is one question with its accepted answers and render instructions.
type Card struct {
	Question     string     `json:"question"`
	Options      []string   `json:"options"`
	Instructions string     `json:"instructions"`
	Answers      []string   `json:"answers"`
	Comment      string     `json:"comment"`
	Render       RenderKind `json:"render"`
}

// Deck is a named, ordered collection of quiz cards. Decks are immutable
// once loaded by the catalog.
type Deck struct {
	Meta  DeckMeta
	Cards []Card
}

// Timeout returns the deck's default answer window.
func (d *Deck) Timeout() time.Duration {
	return time.Duration(d.Meta.Time) * time.Millisecond
}

// GuildConfig holds per-guild bot settings.
type GuildConfig struct {
	GuildID             string
	ImmersionEnabled    bool
	ImmersionPublic     bool
	ImmersionChannel    string
	QuizChannels        []string
	NotificationChannel string
}

// QuizReward maps a stored quiz invocation string to a role granted on completion.
type QuizReward struct {
	// RoleID is the role granted when the quiz attached to this reward is won.
	RoleID  string
	GuildID string
	Sort    int
	// Name is what users type to start the quiz.
	Name string
	// Command is the invocation string the quiz session is started with.
	Command  string
	Cooldown time.Duration
}

// MediaType classifies immersion log entries.
type MediaType string

const (
	MediaVisualNovel MediaType = "visualnovel"
	MediaManga       MediaType = "manga"
	MediaAnime       MediaType = "anime"
	MediaBook        MediaType = "book"
	MediaListening   MediaType = "listening"
	MediaYoutube     MediaType = "youtube"
	MediaAnki        MediaType = "anki"
)

// Unit returns the unit of Amount for the media type.
func (m MediaType) Unit() string {
	switch m {
	case MediaVisualNovel, MediaBook:
		return "char"
	case MediaManga:
		return "page"
	case MediaAnime:
		return "episode"
	case MediaListening:
		return "session"
	case MediaYoutube:
		return "video"
	case MediaAnki:
		return "card"
	default:
		return "item"
	}
}

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	switch m {
	case MediaVisualNovel, MediaManga, MediaAnime, MediaBook, MediaListening, MediaYoutube, MediaAnki:
		return true
	}
	return false
}

// SingleItem reports whether only one unit may be logged at a time.
func (m MediaType) SingleItem() bool {
	return m == MediaYoutube
}

// ImmersionLog is one media consumption entry.
type ImmersionLog struct {
	ID        int64
	UserID    string
	GuildID   string
	MediaType MediaType
	Amount    int
	// Interpolated marks amounts derived from existing data rather than user input.
	Interpolated bool
	Duration     time.Duration
	CreatedAt    time.Time
	Title        string
	// ContentID identifies the content at its metadata provider, or "@" for freeform titles.
	ContentID string
	Comment   string
}

// ImmersionTotal aggregates a user's logs for one media type.
type ImmersionTotal struct {
	MediaType MediaType
	Amount    int64
	Duration  time.Duration
}

// ProviderMetadata is a cached lookup result from an external metadata provider.
type ProviderMetadata struct {
	Provider    string `json:"provider"`
	ProviderID  string `json:"providerId"`
	Title       string `json:"title"`
	NativeTitle string `json:"nativeTitle"`
	URL         string `json:"url"`
	Image       string `json:"image"`
}
