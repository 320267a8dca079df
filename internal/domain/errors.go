package domain

import "errors"

var (
	// ErrSessionExists is returned when a quiz is already running in a channel.
	ErrSessionExists = errors.New("a quiz session is already running in this channel")
	// ErrSessionNotFound is returned when no quiz session is live for a channel.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrDeckNotFound indicates an unknown deck id in an invocation string.
	ErrDeckNotFound = errors.New("deck not found")
	// ErrRewardNotFound indicates an unknown quiz reward name.
	ErrRewardNotFound = errors.New("quiz reward not found")
	// ErrGuildNotConfigured indicates the guild has no stored configuration.
	ErrGuildNotConfigured = errors.New("guild not configured")
	// ErrCooldownActive is returned when a user retries a reward quiz too soon.
	ErrCooldownActive = errors.New("quiz reward on cooldown")
	// ErrNoLogs is returned when a user has no immersion logs to act on.
	ErrNoLogs = errors.New("no immersion logs")
	// ErrMetadataNotFound indicates a provider lookup matched nothing.
	ErrMetadataNotFound = errors.New("metadata not found")
)
