package domain

import "time"

// ArbitratedRound - one round resolved by the arbitration service
type ArbitratedRound struct {
	ID           int64     `db:"id" json:"id"`
	PlayerID     *string   `db:"player_id" json:"player_id,omitempty"`
	PlayerMove   string    `db:"player_move" json:"player_move"`
	PreviousMove *string   `db:"previous_move" json:"previous_move,omitempty"`
	OpponentMove string    `db:"opponent_move" json:"opponent_move"`
	Verdict      string    `db:"verdict" json:"verdict"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RoundStats - aggregate over a player's arbitrated rounds
type RoundStats struct {
	PlayerID string `json:"player_id"`
	Rounds   int    `json:"rounds"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}
