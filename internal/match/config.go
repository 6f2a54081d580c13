package match

import (
	"time"

	"jokenpo/internal/game"
)

// Config holds the timing and sizing of a match session. Every delay is a
// multiple of TimeUnit so tests can shrink the whole schedule at once.
type Config struct {
	RoundsPerMatch int
	HistoryLimit   int
	MaxRetries     int

	TimeUnit        time.Duration
	RequestTimeout  time.Duration
	RevealCountdown int
	ShuffleInterval time.Duration
	RevealHold      time.Duration
	CompletionDelay time.Duration
	NoticeTTL       time.Duration
	ErrorNoticeTTL  time.Duration
	ProbeTimeout    time.Duration
	MaxClockSkew    time.Duration
}

// ConfigForUnit builds the standard schedule for the given time unit.
func ConfigForUnit(unit time.Duration) Config {
	if unit <= 0 {
		unit = time.Second
	}
	return Config{
		RoundsPerMatch: game.DefaultRoundsPerMatch,
		HistoryLimit:   game.DefaultHistoryLimit,
		MaxRetries:     3,

		TimeUnit:        unit,
		RequestTimeout:  10 * unit,
		RevealCountdown: 3,
		ShuffleInterval: unit * 15 / 100,
		RevealHold:      unit * 8 / 10,
		CompletionDelay: unit / 2,
		NoticeTTL:       3 * unit,
		ErrorNoticeTTL:  4 * unit,
		ProbeTimeout:    5 * unit,
		MaxClockSkew:    5 * time.Minute,
	}
}

func DefaultConfig() Config {
	return ConfigForUnit(time.Second)
}

// Backoff is the wait before retry number attempt (1-based).
func (c Config) Backoff(attempt int) time.Duration {
	return time.Duration(attempt) * c.TimeUnit
}
