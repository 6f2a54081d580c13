package game

import "testing"

func TestRoundHistoryBound(t *testing.T) {
	h := NewRoundHistory(10)
	for i := 1; i <= 15; i++ {
		h.Record(RoundRecord{Sequence: i, PlayerMove: Rock, OpponentMove: Paper, Verdict: VerdictOpponentWin})
	}

	if h.Len() != 10 {
		t.Fatalf("expected 10 records, got %d", h.Len())
	}

	records := h.Records()
	for i, r := range records {
		want := 15 - i
		if r.Sequence != want {
			t.Fatalf("records[%d].Sequence = %d; want %d", i, r.Sequence, want)
		}
	}
}

func TestRoundHistoryRecordsIsCopy(t *testing.T) {
	h := NewRoundHistory(2)
	h.Record(RoundRecord{Sequence: 1})

	out := h.Records()
	out[0].Sequence = 99
	if h.Records()[0].Sequence != 1 {
		t.Fatalf("Records must not expose internal storage")
	}

	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("expected empty history after Clear")
	}
}
