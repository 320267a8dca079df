package immersion_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gengo-bot/internal/domain"
	"gengo-bot/internal/immersion"
	"gengo-bot/internal/infra/memory"
	"gengo-bot/internal/provider"
)

func newTestService(t *testing.T) (*immersion.Service, *memory.GuildStore) {
	t.Helper()
	guilds := memory.NewGuildStore()
	if err := guilds.PutGuildConfig(context.Background(), domain.GuildConfig{
		GuildID:          "g1",
		ImmersionEnabled: true,
	}); err != nil {
		t.Fatalf("seed guild config: %v", err)
	}

	providers := provider.NewSet()
	providers.Register(domain.MediaVisualNovel, &provider.Static{
		ProviderName: "vndb",
		Entries: map[string]domain.ProviderMetadata{
			"v11": {Provider: "vndb", ProviderID: "v11", Title: "Muv-Luv"},
		},
	})

	logs := memory.NewImmersionStore()
	return immersion.NewService(logs, logs, guilds, providers, nil), guilds
}

func logRequest(media domain.MediaType, amount int) immersion.LogRequest {
	return immersion.LogRequest{
		UserID:    "u1",
		GuildID:   "g1",
		MediaType: media,
		Amount:    amount,
		Duration:  30 * time.Minute,
		Content:   "some title",
	}
}

func TestLogValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		req  immersion.LogRequest
	}{
		{"unknown media type", logRequest("podcast", 1)},
		{"zero amount", logRequest(domain.MediaManga, 0)},
		{"negative amount", logRequest(domain.MediaManga, -3)},
		{"multiple youtube videos", logRequest(domain.MediaYoutube, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Log(ctx, tc.req)
			var verr *immersion.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestLogRejectsLongComment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	req := logRequest(domain.MediaBook, 500)
	req.Comment = strings.Repeat("あ", 51)
	if _, err := svc.Log(ctx, req); err == nil {
		t.Fatalf("expected comment length rejection")
	}

	// 50 runes is fine even though it is more than 50 bytes
	req.Comment = strings.Repeat("あ", 50)
	if _, err := svc.Log(ctx, req); err != nil {
		t.Fatalf("expected 50-rune comment accepted, got %v", err)
	}
}

func TestLogRequiresEnabledGuild(t *testing.T) {
	ctx := context.Background()
	svc, guilds := newTestService(t)

	req := logRequest(domain.MediaManga, 10)
	req.GuildID = "unknown"
	if _, err := svc.Log(ctx, req); err == nil {
		t.Fatalf("expected rejection for unconfigured guild")
	}

	_ = guilds.PutGuildConfig(ctx, domain.GuildConfig{GuildID: "g2", ImmersionEnabled: false})
	req.GuildID = "g2"
	var verr *immersion.ValidationError
	if _, err := svc.Log(ctx, req); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for disabled guild, got %v", err)
	}
}

func TestLogResolvesProviderTitle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	req := logRequest(domain.MediaVisualNovel, 3000)
	req.Content = "v11"
	entry, err := svc.Log(ctx, req)
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if entry.Title != "Muv-Luv" || entry.ContentID != "v11" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	req.Content = "v999"
	var verr *immersion.ValidationError
	if _, err := svc.Log(ctx, req); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown id, got %v", err)
	}
}

func TestLogFreeformTitle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	entry, err := svc.Log(ctx, logRequest(domain.MediaBook, 1200))
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if entry.Title != "some title" || entry.ContentID != immersion.FreeformContentID {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestUndoRemovesLatest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Undo(ctx, "u1"); !errors.Is(err, domain.ErrNoLogs) {
		t.Fatalf("expected ErrNoLogs, got %v", err)
	}

	if _, err := svc.Log(ctx, logRequest(domain.MediaManga, 10)); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	second, err := svc.Log(ctx, logRequest(domain.MediaAnime, 1))
	if err != nil {
		t.Fatalf("log failed: %v", err)
	}

	removed, err := svc.Undo(ctx, "u1")
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if removed.ID != second.ID {
		t.Fatalf("expected latest log removed, got %+v", removed)
	}

	logs, err := svc.Recent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(logs) != 1 || logs[0].MediaType != domain.MediaManga {
		t.Fatalf("unexpected remaining logs %+v", logs)
	}
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Log(ctx, logRequest(domain.MediaAnime, 1)); err != nil {
			t.Fatalf("log failed: %v", err)
		}
	}
	totals, err := svc.Totals(ctx, "u1")
	if err != nil {
		t.Fatalf("totals failed: %v", err)
	}
	if len(totals) != 1 || totals[0].Amount != 3 || totals[0].Duration != 90*time.Minute {
		t.Fatalf("unexpected totals %+v", totals)
	}
}
