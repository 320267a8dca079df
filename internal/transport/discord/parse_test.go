package discord

import (
	"testing"
	"time"

	"gengo-bot/internal/domain"
)

func TestParseLogArgs(t *testing.T) {
	args, err := parseLogArgs("manga 10 25 Yotsuba& vol 1 # great chapter")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if args.Media != domain.MediaManga || args.Amount != 10 {
		t.Fatalf("unexpected args %+v", args)
	}
	if args.Duration != 25*time.Minute {
		t.Fatalf("unexpected duration %v", args.Duration)
	}
	if args.Content != "Yotsuba& vol 1" {
		t.Fatalf("unexpected content %q", args.Content)
	}
	if args.Comment != "great chapter" {
		t.Fatalf("unexpected comment %q", args.Comment)
	}
}

func TestParseLogArgsRejections(t *testing.T) {
	cases := []string{
		"",
		"manga 10 25",          // no content
		"manga ten 25 title",   // bad amount
		"manga 10 later title", // bad duration
	}
	for _, in := range cases {
		if _, err := parseLogArgs(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseDurationArg(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"90", 90 * time.Minute},
		{"1:30", 90 * time.Minute},
		{"0:05", 5 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"45s", 45 * time.Second},
	}
	for _, tc := range cases {
		got, err := parseDurationArg(tc.in)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, in := range []string{"1:75", "-5", "abc", "-1:30"} {
		if _, err := parseDurationArg(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatLogLine(t *testing.T) {
	l := domain.ImmersionLog{
		CreatedAt: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		MediaType: domain.MediaAnime,
		ContentID: "@",
		Title:     "Monster",
		Amount:    2,
		Duration:  48 * time.Minute,
		Comment:   "pacing picks up",
	}
	got := formatLogLine(l)
	want := `2025-03-14: [anime][@] "Monster" -> 2, 48m # pacing picks up`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{25 * time.Minute, "25m"},
		{90 * time.Minute, "1h30m"},
		{2 * time.Hour, "2h00m"},
		{30 * time.Second, "1m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.in); got != tc.want {
			t.Fatalf("%v: got %q, want %q", tc.in, got, tc.want)
		}
	}
}
