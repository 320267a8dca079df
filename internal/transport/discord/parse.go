package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gengo-bot/internal/domain"
)

type logArgs struct {
	Media    domain.MediaType
	Amount   int
	Duration time.Duration
	Content  string
	Comment  string
}

// parseLogArgs splits "<type> <amount> <duration> <content> [# comment]".
// Content may contain spaces; an optional comment follows the first " # ".
func parseLogArgs(rest string) (logArgs, error) {
	var args logArgs
	if comment, ok := splitComment(&rest); ok {
		args.Comment = comment
	}
	fields := strings.Fields(rest)
	if len(fields) < 4 {
		return args, fmt.Errorf("expected at least 4 arguments, got %d", len(fields))
	}
	args.Media = domain.MediaType(strings.ToLower(fields[0]))

	amount, err := strconv.Atoi(fields[1])
	if err != nil {
		return args, fmt.Errorf("amount %q is not a number", fields[1])
	}
	args.Amount = amount

	d, err := parseDurationArg(fields[2])
	if err != nil {
		return args, err
	}
	args.Duration = d
	args.Content = strings.Join(fields[3:], " ")
	return args, nil
}

func splitComment(rest *string) (string, bool) {
	body, comment, ok := strings.Cut(*rest, " # ")
	if !ok {
		return "", false
	}
	*rest = body
	return strings.TrimSpace(comment), true
}

// parseDurationArg accepts "hh:mm", a bare minute count, or a Go
// duration string like "1h30m".
func parseDurationArg(s string) (time.Duration, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err1 := strconv.Atoi(h)
		mins, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil || hours < 0 || mins < 0 || mins > 59 {
			return 0, fmt.Errorf("duration %q is not in hh:mm form", s)
		}
		return time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute, nil
	}
	if mins, err := strconv.Atoi(s); err == nil {
		if mins < 0 {
			return 0, fmt.Errorf("duration %q must not be negative", s)
		}
		return time.Duration(mins) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration %q is not valid", s)
	}
	return d, nil
}

func formatLogLine(l domain.ImmersionLog) string {
	line := fmt.Sprintf("%s: [%s][%s] %q -> %d, %s",
		l.CreatedAt.Format("2006-01-02"), l.MediaType, l.ContentID, l.Title, l.Amount, formatDuration(l.Duration))
	if l.Comment != "" {
		line += " # " + l.Comment
	}
	return line
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
