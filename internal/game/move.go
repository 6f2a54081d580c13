package game

import (
	"errors"
	"fmt"
	"strings"
)

// Move is one of the three hands. The integer value is the stable wire index.
type Move int

const (
	Rock Move = iota
	Paper
	Scissors
)

// MoveCount is the size of the catalog.
const MoveCount = 3

var ErrUnknownMove = errors.New("unknown move")

var (
	moveTokens  = [MoveCount]string{"rock", "paper", "scissors"}
	moveNames   = [MoveCount]string{"Rock", "Paper", "Scissors"}
	moveSymbols = [MoveCount]string{"👊", "✋", "✌️"}

	// legacy clients and servers speak portuguese
	moveAliases = map[string]Move{
		"rock":     Rock,
		"paper":    Paper,
		"scissors": Scissors,
		"pedra":    Rock,
		"papel":    Paper,
		"tesoura":  Scissors,
	}
)

// Moves lists the catalog in index order.
var Moves = [MoveCount]Move{Rock, Paper, Scissors}

func (m Move) Valid() bool {
	return m >= Rock && m <= Scissors
}

func (m Move) Index() int {
	return int(m)
}

// Token is the lowercase wire representation ("rock").
func (m Move) Token() string {
	if !m.Valid() {
		return ""
	}
	return moveTokens[m]
}

func (m Move) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Move(%d)", int(m))
	}
	return moveNames[m]
}

// Symbol is the emoji shown during the reveal.
func (m Move) Symbol() string {
	if !m.Valid() {
		return "?"
	}
	return moveSymbols[m]
}

// MoveFromIndex validates a wire index.
func MoveFromIndex(i int) (Move, error) {
	m := Move(i)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: index %d", ErrUnknownMove, i)
	}
	return m, nil
}

// ParseMove accepts a token in any case, surrounded by whitespace or not.
func ParseMove(token string) (Move, error) {
	m, ok := moveAliases[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMove, token)
	}
	return m, nil
}

func (m Move) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownMove, int(m))
	}
	return []byte(m.Token()), nil
}

func (m *Move) UnmarshalText(b []byte) error {
	parsed, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
