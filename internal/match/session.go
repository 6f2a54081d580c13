package match

import (
	"jokenpo/internal/game"
)

// Session is the mutable state of one match. It is owned by the
// coordinator goroutine and never shared.
type Session struct {
	Score   *game.ScoreBoard
	History *game.RoundHistory
	State   MatchState

	previous *game.Move
	sequence int
}

func NewSession(cfg Config) *Session {
	return &Session{
		Score:   game.NewScoreBoard(cfg.RoundsPerMatch),
		History: game.NewRoundHistory(cfg.HistoryLimit),
		State:   MatchAwaitingInput,
	}
}

// Commit records a finished round and returns its record.
func (s *Session) Commit(player, opponent game.Move, verdict game.Verdict, raw string) game.RoundRecord {
	s.sequence++
	rec := game.RoundRecord{
		Sequence:     s.sequence,
		PlayerMove:   player,
		OpponentMove: opponent,
		Verdict:      verdict,
		RawVerdict:   raw,
	}
	s.History.Record(rec)
	s.Score.ApplyResult(verdict)
	p := player
	s.previous = &p
	return rec
}

// PreviousIndex is the player's move of the last completed round, nil
// before the first one.
func (s *Session) PreviousIndex() *int {
	if s.previous == nil {
		return nil
	}
	i := s.previous.Index()
	return &i
}

func (s *Session) Reset() {
	s.Score.Reset()
	s.History.Clear()
	s.State = MatchAwaitingInput
	s.previous = nil
	s.sequence = 0
}
