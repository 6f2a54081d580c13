package game

// DefaultHistoryLimit is how many rounds the history keeps.
const DefaultHistoryLimit = 10

// RoundRecord is one completed round. It is never mutated after creation.
type RoundRecord struct {
	Sequence     int     `json:"sequence"`
	PlayerMove   Move    `json:"player_move"`
	OpponentMove Move    `json:"opponent_move"`
	Verdict      Verdict `json:"verdict"`
	// RawVerdict is the token as received, kept for unknown verdicts.
	RawVerdict string `json:"raw_verdict"`
}

// RoundHistory is a bounded log, newest first.
type RoundHistory struct {
	limit   int
	records []RoundRecord
}

func NewRoundHistory(limit int) *RoundHistory {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &RoundHistory{limit: limit, records: make([]RoundRecord, 0, limit+1)}
}

// Record prepends r and evicts the oldest entry beyond the limit.
func (h *RoundHistory) Record(r RoundRecord) {
	h.records = append(h.records, RoundRecord{})
	copy(h.records[1:], h.records)
	h.records[0] = r
	if len(h.records) > h.limit {
		h.records = h.records[:h.limit]
	}
}

func (h *RoundHistory) Clear() {
	h.records = h.records[:0]
}

func (h *RoundHistory) Len() int {
	return len(h.records)
}

func (h *RoundHistory) Limit() int {
	return h.limit
}

// Records returns a copy, index 0 being the most recent round.
func (h *RoundHistory) Records() []RoundRecord {
	out := make([]RoundRecord, len(h.records))
	copy(out, h.records)
	return out
}
