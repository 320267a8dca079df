// Package immersion implements media consumption logging: users record
// what they read, watched, or listened to, and the bot keeps per-user
// history and totals.
package immersion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"gengo-bot/internal/domain"
	"gengo-bot/internal/provider"
)

// MaxCommentLength bounds user comments, in runes.
const MaxCommentLength = 50

// FreeformContentID marks logs whose title came from the user, not a
// metadata provider.
const FreeformContentID = "@"

// Store persists immersion logs.
type Store interface {
	Insert(ctx context.Context, log *domain.ImmersionLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.ImmersionLog, error)
	Latest(ctx context.Context, userID string) (domain.ImmersionLog, error)
	Delete(ctx context.Context, id int64) error
}

// SummaryStore answers aggregate queries; backed by SQL in production and
// by the same in-memory store in tests.
type SummaryStore interface {
	Totals(ctx context.Context, userID string) ([]domain.ImmersionTotal, error)
}

// GuildGate exposes the guild settings immersion logging is gated on.
type GuildGate interface {
	GuildConfig(ctx context.Context, guildID string) (domain.GuildConfig, error)
}

// ValidationError is a user-facing rejection; no state was mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Service implements the immersion logging use cases.
type Service struct {
	store     Store
	summaries SummaryStore
	guilds    GuildGate
	providers *provider.Set
	log       *slog.Logger
	clock     func() time.Time
}

func NewService(store Store, summaries SummaryStore, guilds GuildGate, providers *provider.Set, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if providers == nil {
		providers = provider.NewSet()
	}
	return &Service{
		store:     store,
		summaries: summaries,
		guilds:    guilds,
		providers: providers,
		log:       log,
		clock:     time.Now,
	}
}

// LogRequest is one media consumption entry to record.
type LogRequest struct {
	UserID    string
	GuildID   string
	MediaType domain.MediaType
	Amount    int
	Duration  time.Duration
	// Content is a provider id for provider-backed media types, or a
	// freeform title otherwise.
	Content string
	Comment string
}

// Log validates and persists an immersion log entry, resolving the content
// title through the media type's provider when one is registered.
func (s *Service) Log(ctx context.Context, req LogRequest) (domain.ImmersionLog, error) {
	if !req.MediaType.Valid() {
		return domain.ImmersionLog{}, validationErrorf("unknown media type %q", req.MediaType)
	}
	if req.Amount <= 0 {
		return domain.ImmersionLog{}, validationErrorf("amount must be positive")
	}
	if req.MediaType.SingleItem() && req.Amount != 1 {
		return domain.ImmersionLog{}, validationErrorf("you may only log one %s at a time", req.MediaType.Unit())
	}
	if utf8.RuneCountInString(req.Comment) > MaxCommentLength {
		return domain.ImmersionLog{}, validationErrorf("comment must be no more than %d characters long", MaxCommentLength)
	}
	if err := s.checkGuild(ctx, req.GuildID); err != nil {
		return domain.ImmersionLog{}, err
	}

	title := req.Content
	contentID := FreeformContentID
	if p, ok := s.providers.For(req.MediaType); ok {
		md, err := p.Lookup(ctx, req.Content)
		if err != nil {
			if errors.Is(err, domain.ErrMetadataNotFound) {
				return domain.ImmersionLog{}, validationErrorf("no %s entry found for %q", p.Name(), req.Content)
			}
			return domain.ImmersionLog{}, fmt.Errorf("lookup %s metadata: %w", p.Name(), err)
		}
		title = md.Title
		contentID = req.Content
	}

	entry := domain.ImmersionLog{
		UserID:    req.UserID,
		GuildID:   req.GuildID,
		MediaType: req.MediaType,
		Amount:    req.Amount,
		Duration:  req.Duration,
		CreatedAt: s.clock().UTC(),
		Title:     title,
		ContentID: contentID,
		Comment:   req.Comment,
	}
	if err := s.store.Insert(ctx, &entry); err != nil {
		return domain.ImmersionLog{}, err
	}
	s.log.Info("immersion log recorded",
		"user", req.UserID, "media", req.MediaType, "amount", req.Amount)
	return entry, nil
}

func (s *Service) checkGuild(ctx context.Context, guildID string) error {
	cfg, err := s.guilds.GuildConfig(ctx, guildID)
	if errors.Is(err, domain.ErrGuildNotConfigured) {
		return validationErrorf("immersion logging is not enabled in this server")
	}
	if err != nil {
		return fmt.Errorf("load guild config: %w", err)
	}
	if !cfg.ImmersionEnabled {
		return validationErrorf("immersion logging is not enabled in this server")
	}
	return nil
}

// Recent returns the user's latest logs, newest first.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]domain.ImmersionLog, error) {
	return s.store.ListByUser(ctx, userID, limit)
}

// Undo removes the user's most recent log and returns it so the caller can
// echo a restore hint.
func (s *Service) Undo(ctx context.Context, userID string) (domain.ImmersionLog, error) {
	last, err := s.store.Latest(ctx, userID)
	if err != nil {
		return domain.ImmersionLog{}, err
	}
	if err := s.store.Delete(ctx, last.ID); err != nil {
		return domain.ImmersionLog{}, err
	}
	return last, nil
}

// Totals aggregates the user's logs per media type.
func (s *Service) Totals(ctx context.Context, userID string) ([]domain.ImmersionTotal, error) {
	return s.summaries.Totals(ctx, userID)
}
