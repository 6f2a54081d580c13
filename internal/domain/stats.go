package domain

// LifetimeStats - persisted counters, one increment per finished match
type LifetimeStats struct {
	Wins         int64 `json:"wins"`
	Losses       int64 `json:"losses"`
	Draws        int64 `json:"draws"`
	MusicEnabled bool  `json:"music_enabled"`
}

// Total returns the number of finished matches
func (s LifetimeStats) Total() int64 {
	return s.Wins + s.Losses + s.Draws
}
