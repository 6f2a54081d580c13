package game

// DefaultRoundsPerMatch is the standard match length.
const DefaultRoundsPerMatch = 10

// ScoreBoard holds the progress of the current match.
// It does not guard against double application; the coordinator has a
// single commit point per round.
type ScoreBoard struct {
	PlayerWins      int `json:"player_wins"`
	OpponentWins    int `json:"opponent_wins"`
	Draws           int `json:"draws"`
	Unknown         int `json:"unknown,omitempty"`
	RoundsRemaining int `json:"rounds_remaining"`
	RoundsPerMatch  int `json:"rounds_per_match"`
}

func NewScoreBoard(roundsPerMatch int) *ScoreBoard {
	if roundsPerMatch <= 0 {
		roundsPerMatch = DefaultRoundsPerMatch
	}
	return &ScoreBoard{RoundsRemaining: roundsPerMatch, RoundsPerMatch: roundsPerMatch}
}

// ApplyResult counts one completed round.
func (s *ScoreBoard) ApplyResult(v Verdict) {
	switch v {
	case VerdictPlayerWin:
		s.PlayerWins++
	case VerdictOpponentWin:
		s.OpponentWins++
	case VerdictDraw:
		s.Draws++
	default:
		s.Unknown++
	}
	if s.RoundsRemaining > 0 {
		s.RoundsRemaining--
	}
}

func (s *ScoreBoard) IsMatchComplete() bool {
	return s.RoundsRemaining == 0
}

func (s *ScoreBoard) RoundsPlayed() int {
	return s.PlayerWins + s.OpponentWins + s.Draws + s.Unknown
}

func (s *ScoreBoard) Reset() {
	*s = ScoreBoard{RoundsRemaining: s.RoundsPerMatch, RoundsPerMatch: s.RoundsPerMatch}
}

// Outcome compares round wins only; draws never decide a match.
func (s *ScoreBoard) Outcome() MatchOutcome {
	switch {
	case s.PlayerWins > s.OpponentWins:
		return OutcomeWin
	case s.OpponentWins > s.PlayerWins:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}
