package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"gengo-bot/internal/domain"
)

func insertLog(t *testing.T, store *ImmersionStore, user string, media domain.MediaType, amount int, d time.Duration) domain.ImmersionLog {
	t.Helper()
	l := domain.ImmersionLog{UserID: user, MediaType: media, Amount: amount, Duration: d, Title: "t"}
	if err := store.Insert(context.Background(), &l); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	return l
}

func TestListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewImmersionStore()

	first := insertLog(t, store, "u1", domain.MediaAnime, 1, 24*time.Minute)
	second := insertLog(t, store, "u1", domain.MediaManga, 10, 30*time.Minute)
	insertLog(t, store, "u2", domain.MediaBook, 5, time.Hour)

	logs, err := store.ListByUser(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(logs) != 2 || logs[0].ID != second.ID || logs[1].ID != first.ID {
		t.Fatalf("unexpected order %+v", logs)
	}

	limited, _ := store.ListByUser(ctx, "u1", 1)
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Fatalf("limit not applied: %+v", limited)
	}
}

func TestLatestAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewImmersionStore()

	if _, err := store.Latest(ctx, "u1"); !errors.Is(err, domain.ErrNoLogs) {
		t.Fatalf("expected ErrNoLogs, got %v", err)
	}

	insertLog(t, store, "u1", domain.MediaAnime, 1, 24*time.Minute)
	last := insertLog(t, store, "u1", domain.MediaManga, 10, 30*time.Minute)

	got, err := store.Latest(ctx, "u1")
	if err != nil || got.ID != last.ID {
		t.Fatalf("unexpected latest %+v err=%v", got, err)
	}

	if err := store.Delete(ctx, last.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete(ctx, last.ID); !errors.Is(err, domain.ErrNoLogs) {
		t.Fatalf("expected ErrNoLogs on double delete, got %v", err)
	}
}

func TestTotalsAggregatePerMedia(t *testing.T) {
	ctx := context.Background()
	store := NewImmersionStore()

	insertLog(t, store, "u1", domain.MediaAnime, 1, 24*time.Minute)
	insertLog(t, store, "u1", domain.MediaAnime, 2, 48*time.Minute)
	insertLog(t, store, "u1", domain.MediaManga, 10, 30*time.Minute)

	totals, err := store.Totals(ctx, "u1")
	if err != nil {
		t.Fatalf("totals failed: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 media types, got %+v", totals)
	}
	if totals[0].MediaType != domain.MediaAnime || totals[0].Amount != 3 || totals[0].Duration != 72*time.Minute {
		t.Fatalf("unexpected anime total %+v", totals[0])
	}
	if totals[1].MediaType != domain.MediaManga || totals[1].Amount != 10 {
		t.Fatalf("unexpected manga total %+v", totals[1])
	}
}
