package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"jokenpo/internal/game"
	"jokenpo/internal/match"
)

var errBadPayload = errors.New("bad payload")

// Inbound is a client frame: {"type":"move","value":"rock"}.
type Inbound struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Outbound is a server frame.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type ReadyPayload struct {
	PlayerID string         `json:"player_id"`
	Session  match.Snapshot `json:"session"`
}

type BusyPayload struct {
	Busy bool `json:"busy"`
}

type NoticePayload struct {
	Level   match.NoticeLevel `json:"level"`
	Message string            `json:"message"`
	TTLMs   int64             `json:"ttl_ms,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// parseMove accepts a token ("rock", "pedra") or a catalog index.
func parseMove(raw json.RawMessage) (game.Move, error) {
	var token string
	if err := json.Unmarshal(raw, &token); err == nil {
		return game.ParseMove(token)
	}
	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil {
		return game.MoveFromIndex(idx)
	}
	return 0, fmt.Errorf("%w: move must be a token or an index", errBadPayload)
}

func parseBool(raw json.RawMessage) (bool, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("%w: expected a boolean", errBadPayload)
	}
	return b, nil
}

func encode(msgType string, data any) ([]byte, error) {
	return json.Marshal(Outbound{Type: msgType, Data: data})
}
