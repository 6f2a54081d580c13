package game

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		token string
		want  Verdict
	}{
		{"win", VerdictPlayerWin},
		{"LOSE", VerdictOpponentWin},
		{" draw ", VerdictDraw},
		{"O JOGADOR GANHOU!", VerdictPlayerWin},
		{"O COMPUTADOR GANHOU!", VerdictOpponentWin},
		{"EMPATE!", VerdictDraw},
	}

	for _, tc := range cases {
		got, err := Classify(tc.token)
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", tc.token, err)
		}
		if got != tc.want {
			t.Fatalf("Classify(%q) = %s; want %s", tc.token, got, tc.want)
		}
	}
}

func TestClassifyUnknown(t *testing.T) {
	v, err := Classify("flawless victory")
	if v != VerdictUnknown {
		t.Fatalf("expected unknown verdict, got %s", v)
	}
	if !errors.Is(err, ErrUnknownVerdict) {
		t.Fatalf("expected ErrUnknownVerdict, got %v", err)
	}
	if v.Bucket() != BucketNone {
		t.Fatalf("unknown verdict must not map to a stats bucket")
	}
}

func TestBuckets(t *testing.T) {
	if VerdictPlayerWin.Bucket() != BucketWins || VerdictOpponentWin.Bucket() != BucketLosses || VerdictDraw.Bucket() != BucketDraws {
		t.Fatalf("verdict buckets mismatch")
	}
	if OutcomeWin.Bucket() != BucketWins || OutcomeLoss.Bucket() != BucketLosses || OutcomeDraw.Bucket() != BucketDraws {
		t.Fatalf("outcome buckets mismatch")
	}
}

func TestParseMove(t *testing.T) {
	cases := map[string]Move{
		"rock":     Rock,
		"Paper":    Paper,
		"SCISSORS": Scissors,
		"pedra":    Rock,
		"Tesoura":  Scissors,
	}
	for token, want := range cases {
		got, err := ParseMove(token)
		if err != nil || got != want {
			t.Fatalf("ParseMove(%q) = %v, %v; want %v", token, got, err, want)
		}
	}

	if _, err := ParseMove("lizard"); !errors.Is(err, ErrUnknownMove) {
		t.Fatalf("expected ErrUnknownMove, got %v", err)
	}
	if _, err := MoveFromIndex(3); !errors.Is(err, ErrUnknownMove) {
		t.Fatalf("expected ErrUnknownMove for index 3, got %v", err)
	}
}
