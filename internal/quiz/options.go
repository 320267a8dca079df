package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// Options is the typed form of a quiz invocation string.
type Options struct {
	Decks []string
	// Scores holds per-deck score limits, same arity as Decks when present.
	Scores []int
	// Timeouts holds per-deck answer windows in seconds, same arity as Decks
	// when present.
	Timeouts    []int
	FailLimit   int
	Multiplayer bool
	Hardcore    bool
	Effect      string
}

// DefaultScoreLimit applies when an invocation string has no -s flag.
const DefaultScoreLimit = 20

// ParseError is a user-facing invocation string rejection.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse quiz string: " + e.Reason
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// ParseOptions parses a flag-style invocation string, e.g.
//
//	-d n5-vocab n5-kanji -s 10 10 -t 20 20 -f 5 -m
//
// Each value flag consumes the tokens up to the next flag. Arity mismatches
// between decks and scores or timeouts are rejected rather than partially
// applied.
func ParseOptions(quizString string) (Options, error) {
	opts := Options{}
	tokens := strings.Fields(quizString)

	for i := 0; i < len(tokens); i++ {
		flag := tokens[i]
		values, next := takeValues(tokens, i+1)

		switch flag {
		case "-d", "--decks":
			if len(values) == 0 {
				return Options{}, parseErrorf("%s requires at least one deck id", flag)
			}
			opts.Decks = append(opts.Decks, values...)
		case "-s", "--score":
			ns, err := toInts(flag, values)
			if err != nil {
				return Options{}, err
			}
			opts.Scores = append(opts.Scores, ns...)
		case "-t", "--timeout":
			ns, err := toInts(flag, values)
			if err != nil {
				return Options{}, err
			}
			opts.Timeouts = append(opts.Timeouts, ns...)
		case "-f", "--fail":
			if len(values) != 1 {
				return Options{}, parseErrorf("%s requires exactly one value", flag)
			}
			n, err := strconv.Atoi(values[0])
			if err != nil {
				return Options{}, parseErrorf("%s: %q is not a number", flag, values[0])
			}
			opts.FailLimit = n
		case "-m", "--multiplayer":
			if len(values) != 0 {
				return Options{}, parseErrorf("%s takes no value", flag)
			}
			opts.Multiplayer = true
		case "-h", "--hardcore":
			if len(values) != 0 {
				return Options{}, parseErrorf("%s takes no value", flag)
			}
			opts.Hardcore = true
		case "-e", "--effect":
			if len(values) != 1 {
				return Options{}, parseErrorf("%s requires exactly one value", flag)
			}
			opts.Effect = values[0]
		default:
			return Options{}, parseErrorf("unknown flag %q", flag)
		}
		i = next - 1
	}

	if len(opts.Decks) == 0 {
		return Options{}, parseErrorf("at least one deck is required (-d)")
	}
	if len(opts.Scores) > 0 && len(opts.Scores) != len(opts.Decks) {
		return Options{}, parseErrorf("got %d score limits for %d decks", len(opts.Scores), len(opts.Decks))
	}
	if len(opts.Timeouts) > 0 && len(opts.Timeouts) != len(opts.Decks) {
		return Options{}, parseErrorf("got %d timeouts for %d decks", len(opts.Timeouts), len(opts.Decks))
	}
	for _, n := range opts.Scores {
		if n <= 0 {
			return Options{}, parseErrorf("score limits must be positive")
		}
	}
	for _, n := range opts.Timeouts {
		if n <= 0 {
			return Options{}, parseErrorf("timeouts must be positive")
		}
	}
	if opts.FailLimit < 0 {
		return Options{}, parseErrorf("fail limit must not be negative")
	}

	return opts, nil
}

// takeValues collects tokens[from:] up to the next flag token. It returns
// the values and the index of the first unconsumed token.
func takeValues(tokens []string, from int) ([]string, int) {
	i := from
	for i < len(tokens) && !strings.HasPrefix(tokens[i], "-") {
		i++
	}
	if i == from {
		return nil, from
	}
	return tokens[from:i], i
}

func toInts(flag string, values []string) ([]int, error) {
	if len(values) == 0 {
		return nil, parseErrorf("%s requires at least one value", flag)
	}
	ns := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, parseErrorf("%s: %q is not a number", flag, v)
		}
		ns = append(ns, n)
	}
	return ns, nil
}
