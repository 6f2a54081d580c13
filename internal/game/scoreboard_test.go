package game

import "testing"

func TestScoreBoardApplyResult(t *testing.T) {
	s := NewScoreBoard(3)

	s.ApplyResult(VerdictPlayerWin)
	s.ApplyResult(VerdictDraw)
	if s.RoundsPlayed() != 2 || s.RoundsRemaining != 1 {
		t.Fatalf("unexpected progress: %+v", s)
	}
	if s.IsMatchComplete() {
		t.Fatalf("match must not be complete yet")
	}

	s.ApplyResult(VerdictOpponentWin)
	if !s.IsMatchComplete() {
		t.Fatalf("match must be complete after 3 rounds")
	}

	// floored at zero
	s.ApplyResult(VerdictUnknown)
	if s.RoundsRemaining != 0 {
		t.Fatalf("rounds remaining went negative: %d", s.RoundsRemaining)
	}
	if s.Unknown != 1 {
		t.Fatalf("unknown verdict must land in the unknown counter")
	}
}

func TestScoreBoardOutcome(t *testing.T) {
	cases := []struct {
		wins, losses, draws int
		want                MatchOutcome
	}{
		{6, 3, 1, OutcomeWin},
		{4, 4, 2, OutcomeDraw},
		{2, 7, 1, OutcomeLoss},
		{0, 0, 10, OutcomeDraw},
	}

	for _, tc := range cases {
		s := ScoreBoard{PlayerWins: tc.wins, OpponentWins: tc.losses, Draws: tc.draws}
		if got := s.Outcome(); got != tc.want {
			t.Fatalf("Outcome(%d/%d/%d) = %s; want %s", tc.wins, tc.losses, tc.draws, got, tc.want)
		}
	}
}

func TestScoreBoardReset(t *testing.T) {
	s := NewScoreBoard(0)
	if s.RoundsRemaining != DefaultRoundsPerMatch {
		t.Fatalf("expected default match length, got %d", s.RoundsRemaining)
	}
	s.ApplyResult(VerdictPlayerWin)
	s.Reset()
	s.Reset()
	if *s != *NewScoreBoard(DefaultRoundsPerMatch) {
		t.Fatalf("reset did not restore the initial board: %+v", s)
	}
}
